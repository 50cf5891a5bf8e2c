// Package types holds the data structures shared by the handlers, the
// storage layer and the web client. Keeping them here avoids import cycles
// between those packages.
package types

// Student is a single registration record.
//
// Struct tags:
//
//  1. json:"..." wire names used by the REST API.
//  2. gorm:"..." column definitions used by AutoMigrate.
//
// Input checks live on the create request in the student handler, not here.
type Student struct {
	ID     uint64 `json:"id"     gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name"   gorm:"size:255;not null"`
	Email  string `json:"email"  gorm:"size:255;not null"`
	Course string `json:"course" gorm:"size:255;not null"`
}

// TableName pins the table name so it does not depend on GORM's
// pluralisation rules.
func (Student) TableName() string {
	return "students"
}
