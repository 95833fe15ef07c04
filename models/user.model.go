package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is fixed when the account is created.
type Role string

const (
	RoleApplicant   Role = "APPLICANT"
	RoleSheha       Role = "SHEHA"
	RoleLoanOfficer Role = "LOAN_OFFICER"
	RoleAdmin       Role = "ADMIN"
)

// Label is the coarse role name handed to clients for UI routing.
func (r Role) Label() string {
	switch r {
	case RoleSheha:
		return "sheha"
	case RoleLoanOfficer:
		return "loan_officer"
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleSheha, RoleLoanOfficer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Name      string     `gorm:"default:''" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      Role       `gorm:"type:varchar(20);not null;default:'APPLICANT'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
