package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SchoolID       uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:uq_employee_number"`
	EmployeeNumber string     `gorm:"uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"not null"`
	Email          string     `gorm:"uniqueIndex:uq_employee_email"`
	StaffCategory  string     `gorm:"index"`
	EmploymentType string     `gorm:"index"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`
	PositionID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Department *Department `gorm:"foreignKey:DepartmentID;references:ID"`
	Position   *Position   `gorm:"foreignKey:PositionID;references:ID"`
}

type Department struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID uuid.UUID `gorm:"type:uuid;index"`
	Name     string    `gorm:"not null"`
}

type Position struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SchoolID     uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	Name         string     `gorm:"not null"`
}
