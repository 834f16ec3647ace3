package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/clinicore/user-directory/internal/audit"
	"github.com/clinicore/user-directory/internal/events"
	"github.com/clinicore/user-directory/internal/models"
	"github.com/clinicore/user-directory/internal/repository"
	"github.com/clinicore/user-directory/internal/utils"
	"github.com/clinicore/user-directory/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// PageSize is the fixed page size for the user list.
	PageSize = 10

	PasswordMinLength = 6
	NameMaxLength     = 255
	EmailMaxLength    = 255

	rememberTokenLength = 10
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DirectoryService implements the five user-management operations.
// Every mutation takes the acting principal so the admin-assignment
// guard is enforced here, not only in the form layer.
type DirectoryService struct {
	userRepo  *repository.UserRepository
	roleRepo  *repository.RoleRepository
	trail     *audit.Trail
	publisher events.Publisher
}

// NewDirectoryService wires the service. trail and publisher may be nil;
// audit and event emission are then skipped.
func NewDirectoryService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, trail *audit.Trail, publisher events.Publisher) *DirectoryService {
	return &DirectoryService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		trail:     trail,
		publisher: publisher,
	}
}

type ListUsersInput struct {
	Search string
	Page   int
}

// UserPage is one page of the directory listing. Search is echoed back
// so the caller can preserve the term across page navigation.
type UserPage struct {
	Users   []*models.User `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Search  string         `json:"search,omitempty"`
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	// RoleID zero means "use the default role"; the fallback is applied
	// here, not by the storage schema.
	RoleID uint
}

// UpdateUserInput is a partial update: nil fields keep their stored value.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	RoleID   *uint
}

// List returns one page of users, with roles attached, optionally
// filtered by a case-insensitive substring match across name, email and
// role name.
func (s *DirectoryService) List(in ListUsersInput) (*UserPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	users, total, err := s.userRepo.List(in.Search, (page-1)*PageSize, PageSize)
	if err != nil {
		logger.Log.Error("Failed to list users",
			zap.String("search", in.Search),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Debug("Listed users",
		zap.String("search", in.Search),
		zap.Int("page", page),
		zap.Int64("total", total),
	)

	return &UserPage{
		Users:   users,
		Total:   total,
		Page:    page,
		PerPage: PageSize,
		Search:  in.Search,
	}, nil
}

// Create validates and persists a new user. Admin-created accounts are
// treated as pre-verified, so email_verified_at is set to the creation
// time. The password is hashed before it ever reaches the repository.
func (s *DirectoryService) Create(actor models.Principal, in CreateUserInput) (*models.User, error) {
	logger.Log.Debug("Processing user create",
		zap.String("email", in.Email),
		zap.Uint("actor_id", actor.UserID),
	)

	verr := NewValidationError()
	s.validateName(verr, in.Name)
	s.validateEmail(verr, in.Email)
	s.validatePassword(verr, in.Password)

	role, err := s.resolveRole(actor, in.RoleID, verr)
	if err != nil {
		return nil, err
	}

	if !verr.HasErrors() {
		taken, err := s.userRepo.EmailTaken(in.Email, 0)
		if err != nil {
			logger.Log.Error("Failed to check email uniqueness",
				zap.String("email", in.Email),
				zap.Error(err),
			)
			return nil, err
		}
		if taken {
			verr.Add("email", "email is already taken")
		}
	}

	if verr.HasErrors() {
		logger.Log.Warn("User create validation failed",
			zap.String("email", in.Email),
			zap.Error(verr),
		)
		return nil, verr
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	rememberToken, err := utils.RandomToken(rememberTokenLength)
	if err != nil {
		logger.Log.Error("Failed to generate remember token", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    hashedPassword,
		RoleID:          role.ID,
		EmailVerifiedAt: &now,
		RememberToken:   rememberToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		// A racing create with the same email loses on the unique index;
		// surface it the same way as the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("User create lost duplicate-email race",
				zap.String("email", in.Email),
			)
			dup := NewValidationError()
			dup.Add("email", "email is already taken")
			return nil, dup
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	created, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		return nil, err
	}

	s.record(audit.ActionCreate, actor, created)
	s.publish(events.UserCreated, created)

	logger.Log.Info("User created",
		zap.Uint("user_id", created.ID),
		zap.String("email", created.Email),
		zap.String("role", created.Role.Name),
		zap.Uint("actor_id", actor.UserID),
	)

	return created, nil
}

// Get returns the user with its role attached, or ErrNotFound.
func (s *DirectoryService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Update applies a partial update. Omitted fields keep their stored
// values; an empty delta is a no-op. A supplied password is re-hashed,
// an omitted one leaves the stored hash untouched.
func (s *DirectoryService) Update(actor models.Principal, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user for update",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	// Accounts holding the admin role may only be modified by admins.
	if user.Role.Name == models.RoleAdmin && !actor.IsAdmin() {
		logger.Log.Warn("Non-admin attempted to modify admin account",
			zap.Uint("actor_id", actor.UserID),
			zap.Uint("user_id", id),
		)
		return nil, ErrForbidden
	}

	verr := NewValidationError()

	if in.Name != nil {
		s.validateName(verr, *in.Name)
	}
	if in.Email != nil {
		s.validateEmail(verr, *in.Email)
	}
	if in.Password != nil {
		s.validatePassword(verr, *in.Password)
	}

	var role *models.Role
	if in.RoleID != nil {
		role, err = s.resolveRole(actor, *in.RoleID, verr)
		if err != nil {
			return nil, err
		}
	}

	if in.Email != nil && !verr.HasErrors() {
		taken, err := s.userRepo.EmailTaken(*in.Email, user.ID)
		if err != nil {
			logger.Log.Error("Failed to check email uniqueness",
				zap.String("email", *in.Email),
				zap.Error(err),
			)
			return nil, err
		}
		if taken {
			verr.Add("email", "email is already taken")
		}
	}

	if verr.HasErrors() {
		logger.Log.Warn("User update validation failed",
			zap.Uint("user_id", id),
			zap.Error(verr),
		)
		return nil, verr
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hashedPassword, err := utils.HashPassword(*in.Password)
		if err != nil {
			logger.Log.Error("Failed to hash password", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}
	if role != nil {
		user.RoleID = role.ID
		user.Role = *role
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			dup := NewValidationError()
			dup.Add("email", "email is already taken")
			return nil, dup
		}
		logger.Log.Error("Failed to update user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		return nil, err
	}

	s.record(audit.ActionUpdate, actor, updated)
	s.publish(events.UserUpdated, updated)

	logger.Log.Info("User updated",
		zap.Uint("user_id", updated.ID),
		zap.String("email", updated.Email),
		zap.Uint("actor_id", actor.UserID),
	)

	return updated, nil
}

// Delete permanently removes a user. Deleting a missing or already
// deleted id reports ErrNotFound, never silent success.
func (s *DirectoryService) Delete(actor models.Principal, id uint) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user for delete",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if user.Role.Name == models.RoleAdmin && !actor.IsAdmin() {
		logger.Log.Warn("Non-admin attempted to delete admin account",
			zap.Uint("actor_id", actor.UserID),
			zap.Uint("user_id", id),
		)
		return ErrForbidden
	}

	rows, err := s.userRepo.Delete(id)
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return err
	}
	if rows == 0 {
		// Row vanished between the read and the delete.
		return ErrNotFound
	}

	s.record(audit.ActionDelete, actor, user)
	s.publish(events.UserDeleted, user)

	logger.Log.Info("User deleted",
		zap.Uint("user_id", id),
		zap.String("email", user.Email),
		zap.Uint("actor_id", actor.UserID),
	)

	return nil
}

// Roles returns the fixed role set for form selectors.
func (s *DirectoryService) Roles() ([]*models.Role, error) {
	roles, err := s.roleRepo.GetAll()
	if err != nil {
		logger.Log.Error("Failed to list roles", zap.Error(err))
		return nil, err
	}
	return roles, nil
}

// resolveRole maps a requested role id (0 means the default role) to a
// role row, recording validation failures on verr. Assigning the admin
// role requires an admin actor; the form-layer restriction alone would
// leave the API open to role escalation.
func (s *DirectoryService) resolveRole(actor models.Principal, roleID uint, verr *ValidationError) (*models.Role, error) {
	if roleID == 0 {
		role, err := s.roleRepo.GetByName(models.DefaultRoleName)
		if err != nil {
			logger.Log.Error("Failed to resolve default role", zap.Error(err))
			return nil, err
		}
		if role == nil {
			logger.Log.Error("Default role missing from roles table",
				zap.String("role", models.DefaultRoleName),
			)
			verr.Add("role_id", "selected role does not exist")
			return nil, nil
		}
		return role, nil
	}

	role, err := s.roleRepo.GetByID(roleID)
	if err != nil {
		logger.Log.Error("Failed to resolve role",
			zap.Uint("role_id", roleID),
			zap.Error(err),
		)
		return nil, err
	}
	if role == nil {
		verr.Add("role_id", "selected role does not exist")
		return nil, nil
	}

	if role.Name == models.RoleAdmin && !actor.IsAdmin() {
		logger.Log.Warn("Non-admin attempted to assign admin role",
			zap.Uint("actor_id", actor.UserID),
			zap.String("actor_role", actor.Role),
		)
		verr.Add("role_id", "only administrators may assign the admin role")
		return nil, nil
	}

	return role, nil
}

// A supplied-but-empty field is a failure, on create and update alike.
func (s *DirectoryService) validateName(verr *ValidationError, name string) {
	if name == "" {
		verr.Add("name", "name is required")
		return
	}
	if len(name) > NameMaxLength {
		verr.Add("name", "name must be at most 255 characters")
	}
}

func (s *DirectoryService) validateEmail(verr *ValidationError, email string) {
	if email == "" {
		verr.Add("email", "email is required")
		return
	}
	if !emailRegex.MatchString(email) {
		verr.Add("email", "invalid email format")
	}
	if len(email) > EmailMaxLength {
		verr.Add("email", "email too long")
	}
}

func (s *DirectoryService) validatePassword(verr *ValidationError, password string) {
	if password == "" {
		verr.Add("password", "password is required")
		return
	}
	if len(password) < PasswordMinLength {
		verr.Add("password", "password must be at least 6 characters")
	}
	if len(password) > 128 {
		verr.Add("password", "password too long")
	}
}

// record appends to the audit trail; an audit failure is logged but does
// not fail the mutation that already committed.
func (s *DirectoryService) record(action string, actor models.Principal, user *models.User) {
	if s.trail == nil {
		return
	}
	entry := audit.Entry{
		Action:    action,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		UserID:    user.ID,
		Email:     user.Email,
		Timestamp: time.Now(),
	}
	if err := s.trail.Record(entry); err != nil {
		logger.Log.Error("Failed to record audit entry",
			zap.String("action", action),
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}
}

func (s *DirectoryService) publish(eventType string, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := events.UserEvent{
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(event); err != nil {
		logger.Log.Error("Failed to publish user event",
			zap.String("type", eventType),
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}
}
