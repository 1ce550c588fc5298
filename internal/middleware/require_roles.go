package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/models"
)

// RequireRoles runs after RequireSession and rejects sessions whose embedded
// role is not in the allowed set. The role is the one captured at issuance;
// it is not re-checked against the store.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := CurrentSession(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if _, ok := roleSet[models.UserRole(claims.User.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
