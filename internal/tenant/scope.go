package tenant

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const Column = "school_id"

// Scope restricts a query to one school. The column is qualified with the
// statement's own table so joined queries stay unambiguous.
func Scope(schoolID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  schoolID,
		})
	}
}
