package salary

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shahadat-technovicinity/school-management-system/internal/middleware"
	"github.com/shahadat-technovicinity/school-management-system/internal/rbac"
)

const resource = "salary"

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	// idempotent wraps write endpoints with the Redis Idempotency-Key guard
	// when Redis is available.
	idempotent := func(action string, h gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, resource, action)}
		if redisClient != nil {
			chain = append(chain, middleware.Idempotency(redisClient))
		}
		return append(chain, h)
	}

	salaries := r.Group("/salaries")
	salaries.Use(
		middleware.AuthMiddleware(),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByUser(rate.Limit(10), 20),
	)
	{
		salaries.GET("", middleware.RBACAuthorize(rbacService, resource, "read"), handler.GetAll)
		salaries.POST("", idempotent("create", handler.Create)...)

		salaries.GET("/dashboard", middleware.RBACAuthorize(rbacService, resource, "read"), handler.Dashboard)
		salaries.GET("/statistics", middleware.RBACAuthorize(rbacService, resource, "read"), handler.Statistics)
		salaries.GET("/export", middleware.RBACAuthorize(rbacService, resource, "export"), handler.Export)
		salaries.GET("/line-item-types", middleware.RBACAuthorize(rbacService, resource, "read"), handler.LineItemTypes)
		salaries.POST("/bulk-pay", idempotent("pay", handler.BulkPay)...)
		salaries.GET("/by-employee/:employee_id", middleware.RBACAuthorize(rbacService, resource, "read"), handler.GetByEmployee)

		salaries.GET("/:id", middleware.RBACAuthorize(rbacService, resource, "read"), handler.GetById)
		salaries.PUT("/:id", middleware.RBACAuthorize(rbacService, resource, "update"), handler.Update)
		salaries.PATCH("/:id", middleware.RBACAuthorize(rbacService, resource, "update"), handler.Update)
		salaries.DELETE("/:id", middleware.RBACAuthorize(rbacService, resource, "delete"), handler.Delete)
		salaries.POST("/:id/pay", middleware.RBACAuthorize(rbacService, resource, "pay"), handler.ProcessPayment)
		salaries.GET("/:id/payslip", middleware.RBACAuthorize(rbacService, resource, "read"), handler.DownloadPayslip)
	}
}
