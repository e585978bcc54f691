package models

import (
	"gorm.io/gorm"
)

// User doubles as an admin account (role admin/super_admin with
// credentials) and a plain client contact record (role client, usually
// without a password). Clients can be created inline while entering a
// reservation and are immediately linked by id.
type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"index"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Notes     string `json:"notes"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"type:varchar(20);default:client;index"` // client, admin, super_admin
}

// FullName joins first and last name for snapshots and documents.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
