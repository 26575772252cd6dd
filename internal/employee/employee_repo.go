package employee

import (
	"context"
	"database/sql"

	"github.com/shahadat-technovicinity/school-management-system/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAllBySchool(ctx context.Context, schoolID string) ([]Employee, error)
	FindOptionsBySchool(ctx context.Context, schoolID string) ([]Employee, error)
	FindByIDAndSchool(ctx context.Context, schoolID string, id string) (*Employee, error)
	ExistsInSchool(ctx context.Context, schoolID string, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Preload("Department").
		Preload("Position").
		Order("full_name").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindOptionsBySchool(ctx context.Context, schoolID string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "employee_number", "full_name").
		Scopes(tenant.Scope(schoolID)).
		Order("full_name").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID string, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Preload("Department").
		Preload("Position").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) ExistsInSchool(ctx context.Context, schoolID string, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
