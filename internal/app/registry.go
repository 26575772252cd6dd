package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shahadat-technovicinity/school-management-system/internal/auth"
	"github.com/shahadat-technovicinity/school-management-system/internal/bootstrap"
	"github.com/shahadat-technovicinity/school-management-system/internal/employee"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka"
	"github.com/shahadat-technovicinity/school-management-system/internal/rbac"
	"github.com/shahadat-technovicinity/school-management-system/internal/rbac/infra"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
)

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.SeedPermissions(context.Background()); err != nil {
		return err
	}

	payslips, err := newPayslipStore(cfg)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, cfg.JWTSecret)
	employeeService := employee.NewService(employeeRepo, rdb)
	salaryService := salary.NewService(db, salaryRepo, employeeService, salary.Options{
		Outbox:   outboxRepo,
		Audit:    bootstrap.NewStdoutAuditLogger(),
		Payslips: payslips,
	})

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	employeeHandler := employee.NewHandler(employeeService)
	salaryHandler := salary.NewHandlerWithRedis(salaryService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService, zap.L())
		salary.RegisterRoutes(api, salaryHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
