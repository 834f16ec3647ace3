package repository_test

import (
	"errors"
	"testing"

	"github.com/clinicore/user-directory/internal/repository"
	"github.com/clinicore/user-directory/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRepo(t *testing.T) *repository.UserRepository {
	td := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { td.Teardown(t) })
	testutil.CleanDatabase(t, td.DB)
	return repository.NewUserRepository(td.DB)
}

func TestCreate_DuplicateEmailTranslated(t *testing.T) {
	repo := setupUserRepo(t)

	first, err := testutil.CreateTestUser("Ana", "ana@x.com", "secret1", 6)
	require.NoError(t, err)
	require.NoError(t, repo.Create(first))

	// Inserting the same address again trips the unique index. With
	// TranslateError on, the driver error must come back as
	// gorm.ErrDuplicatedKey so callers can fold it into the email
	// validation message.
	second, err := testutil.CreateTestUser("Ana Again", "ana@x.com", "secret1", 6)
	require.NoError(t, err)

	err = repo.Create(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestUpdate_DuplicateEmailTranslated(t *testing.T) {
	repo := setupUserRepo(t)

	taken, err := testutil.CreateTestUser("Ana", "ana@x.com", "secret1", 6)
	require.NoError(t, err)
	require.NoError(t, repo.Create(taken))

	other, err := testutil.CreateTestUser("Ben", "ben@x.com", "secret1", 6)
	require.NoError(t, err)
	require.NoError(t, repo.Create(other))

	other.Email = "ana@x.com"
	err = repo.Update(other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestEmailTaken_ExcludesSelf(t *testing.T) {
	repo := setupUserRepo(t)

	user, err := testutil.CreateTestUser("Ana", "ana@x.com", "secret1", 6)
	require.NoError(t, err)
	require.NoError(t, repo.Create(user))

	taken, err := repo.EmailTaken("ana@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// A user keeping their own address is not a conflict.
	taken, err = repo.EmailTaken("ana@x.com", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
