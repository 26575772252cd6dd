package rbac

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_role_school_name"`
	Name        string    `gorm:"not null;uniqueIndex:uq_role_school_name"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Resource string    `gorm:"not null;uniqueIndex:uq_permission_resource_action"`
	Action   string    `gorm:"not null;uniqueIndex:uq_permission_resource_action"`
	Label    string
	Category string
}

type RolePermission struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

type EmployeeRole struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// DefaultPermissions is the catalogue seeded at startup; roles pick from it.
var DefaultPermissions = []Permission{
	{Resource: "salary", Action: "read", Label: "View salaries", Category: "Salary"},
	{Resource: "salary", Action: "create", Label: "Create salaries", Category: "Salary"},
	{Resource: "salary", Action: "update", Label: "Edit salaries", Category: "Salary"},
	{Resource: "salary", Action: "delete", Label: "Delete salaries", Category: "Salary"},
	{Resource: "salary", Action: "pay", Label: "Pay or cancel salaries", Category: "Salary"},
	{Resource: "salary", Action: "export", Label: "Export salaries", Category: "Salary"},
	{Resource: "employee", Action: "read", Label: "View employees", Category: "Employee"},
	{Resource: "role", Action: "read", Label: "View permissions", Category: "Access"},
}
