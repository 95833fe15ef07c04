package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Bank status codes recorded on an applicant.
const (
	BankStatusPending    = "pending"
	BankStatusVerified   = "verified"
	BankStatusRejected   = "rejected"
	BankStatusNoBusiness = "no business found"
)

type Applicant struct {
	gorm.Model
	UserID          uint      `gorm:"index;not null" json:"userId"`
	User            User      `gorm:"foreignKey:UserID" json:"-"`
	Name            string    `gorm:"not null" json:"name"`
	Age             int       `json:"age"`
	Gender          string    `gorm:"type:varchar(10)" json:"gender"`
	MaritalStatus   string    `gorm:"type:varchar(20)" json:"maritalStatus"`
	Region          string    `json:"region"`
	District        string    `json:"district"`
	Ward            string    `gorm:"index;not null" json:"ward"`
	Village         string    `json:"village"`
	Phone           string    `gorm:"type:varchar(15)" json:"phone"`
	PassportPath    string    `gorm:"default:''" json:"passportPath"`
	ShehaID         *uint     `gorm:"index" json:"shehaId"`
	Sheha           *Sheha    `gorm:"foreignKey:ShehaID" json:"sheha,omitempty"`
	VerifiedBySheha bool      `gorm:"default:false" json:"verifiedBySheha"`
	VerifiedByBank  bool      `gorm:"default:false" json:"verifiedByBank"`
	BankStatus      string    `gorm:"default:'pending'" json:"bankStatus"`
	Business        *Business `gorm:"foreignKey:ApplicantID" json:"business,omitempty"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// OverallVerified holds only when both the sheha and the bank approved.
func (a Applicant) OverallVerified() bool {
	return a.VerifiedBySheha && a.VerifiedByBank
}

func (a Applicant) MarshalJSON() ([]byte, error) {
	type plain Applicant
	return json.Marshal(struct {
		plain
		Verified bool `json:"verified"`
	}{plain(a), a.OverallVerified()})
}
