package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

const callerKey = "caller"

func JWTAuthMiddleware() gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(callerKey, utils.CallerContext{
			AccountID: accountID,
			Role:      claims.Role,
		})
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {

	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok || caller.Role != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CallerFrom extracts the verified caller identity set by JWTAuthMiddleware.
func CallerFrom(c *gin.Context) (utils.CallerContext, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return utils.CallerContext{}, false
	}
	caller, ok := v.(utils.CallerContext)
	return caller, ok
}
