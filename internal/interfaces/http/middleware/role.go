package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/interfaces/http/dto"
)

// RequireRoles rejects requests whose authenticated requester does not
// hold one of the given roles. Must run after JWTAuth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := GetRequester(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		for _, role := range roles {
			if requester.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient role"))
	}
}
