package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	autherrors "github.com/shahadat-technovicinity/school-management-system/internal/auth/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/response"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/token"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Abort(c, autherrors.ErrTokenNotFound)
			return
		}

		sub, err := token.Parse(os.Getenv("JWT_SECRET"), tokenString, token.TypeAccess)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set("user_id", sub.UserID)
		c.Set("user_id_validated", sub.UserID)
		c.Set("employee_id", sub.EmployeeID)
		c.Set("school_id", sub.SchoolID)
		c.Set("role", sub.Role)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range allowedRoles {
			if strings.EqualFold(userRole, role) {
				c.Next()
				return
			}
		}
		response.Abort(c, autherrors.ErrForbidden)
	}
}
