package models

import (
	"gorm.io/gorm"
)

// Sheha is the ward-level intermediary. One per ward.
type Sheha struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Name   string `gorm:"not null" json:"name"`
	Age    int    `json:"age"`
	Gender string `gorm:"type:varchar(10)" json:"gender"`
	Phone  string `gorm:"type:varchar(15)" json:"phone"`
	Email  string `json:"email"`
	Ward   string `gorm:"uniqueIndex:idx_shehas_ward,where:deleted_at IS NULL;not null" json:"ward"`
}

func (Sheha) TableName() string {
	return "shehas"
}

type LoanOfficer struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Name   string `gorm:"not null" json:"name"`
	Gender string `gorm:"type:varchar(10)" json:"gender"`
	Age    int    `json:"age"`
	Office string `json:"office"`
	Email  string `json:"email"`
	Phone  string `gorm:"type:varchar(15)" json:"phone"`
}

func (LoanOfficer) TableName() string {
	return "loan_officers"
}
