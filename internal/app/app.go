package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shahadat-technovicinity/school-management-system/internal/auth"
	"github.com/shahadat-technovicinity/school-management-system/internal/employee"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka"
	"github.com/shahadat-technovicinity/school-management-system/internal/middleware"
	"github.com/shahadat-technovicinity/school-management-system/internal/rbac"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/connection"
)

// BuildApp connects infrastructure and registers every module on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, 5)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			_ = rdb.Close()
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("schema migrated")
	}

	router.Use(middleware.RequestID(), corsMiddleware(cfg))
	if cfg.ServesPayslips() {
		router.Static(cfg.PayslipBaseURL, cfg.PayslipDir)
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	return func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Department{},
		&employee.Position{},
		&employee.Employee{},
		&auth.User{},
		&rbac.Role{},
		&rbac.Permission{},
		&rbac.RolePermission{},
		&rbac.EmployeeRole{},
		&salary.SalaryRecord{},
		&salary.AllowanceLine{},
		&salary.DeductionLine{},
		&kafka.OutboxRecord{},
	)
}
