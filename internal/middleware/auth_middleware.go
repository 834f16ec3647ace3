package middleware

import (
	"net/http"
	"strings"

	"github.com/clinicore/user-directory/internal/models"
	"github.com/clinicore/user-directory/internal/utils"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware resolves the current principal from the session token
// (HTTP-only cookie set at login, or an Authorization bearer header) and
// stores it in the request context for the role gate and the handlers.
// An absent or invalid token leaves no principal; the role gate decides
// what that means for the guarded route.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		c.Set(principalKey, claims.Principal())
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		// No "Bearer " prefix
		return ""
	}
	return tokenString
}

// CurrentPrincipal returns the authenticated actor for this request, if
// any.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

// SetPrincipal stores a principal directly in the request context. Used
// by tests to exercise guarded routes without a token round trip.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}

// RequireAuthenticated rejects requests with no resolved principal.
// Routes that need a signed-in user but no specific role use this.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "You must sign in.",
				"redirect": "/login",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
