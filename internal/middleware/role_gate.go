package middleware

import (
	"net/http"

	"github.com/clinicore/user-directory/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRoles gates a route behind a fixed set of role names, configured
// at route-registration time rather than parsed from a string per
// request. The check is stateless and read-only:
//
//   - no principal: 401 with a sign-in message and the login entry point;
//   - principal whose role is not in the set: 403 with a permission
//     message and a redirect back to the referring page;
//   - otherwise the request proceeds unchanged.
//
// Role names are compared exactly; there is no case folding and no
// hierarchy, so "admin" does not imply any other role.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "You must sign in.",
				"redirect": "/login",
			})
			c.Abort()
			return
		}

		if _, member := allowed[principal.Role]; !member {
			logger.Log.Warn("Role gate denied request",
				zap.Uint("user_id", principal.UserID),
				zap.String("role", principal.Role),
				zap.String("path", c.Request.URL.Path),
			)

			redirect := c.Request.Referer()
			if redirect == "" {
				redirect = "/"
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "You do not have permission to access this section.",
				"redirect": redirect,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
