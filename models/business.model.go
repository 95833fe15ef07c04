package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanCeilingRatio caps a loan request against declared annual income.
var LoanCeilingRatio = decimal.NewFromFloat(0.7)

type Business struct {
	gorm.Model
	ApplicantID         uint            `gorm:"uniqueIndex:idx_businesses_applicant,where:deleted_at IS NULL;not null" json:"applicantId"`
	Applicant           *Applicant      `gorm:"foreignKey:ApplicantID" json:"-"`
	Name                string          `gorm:"not null" json:"name"`
	RegistrationNumber  string          `json:"registrationNumber"`
	Location            string          `json:"location"`
	Type                string          `gorm:"type:varchar(50)" json:"type"`
	AnnualIncome        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"annualIncome"`
	BankNo              string          `gorm:"type:varchar(20);not null;index" json:"bankNo"`
	DeclarationAccepted bool            `gorm:"default:false" json:"declarationAccepted"`
}

func (Business) TableName() string {
	return "businesses"
}

// LoanCeiling is the largest amount this business may request.
func (b Business) LoanCeiling() decimal.Decimal {
	return b.AnnualIncome.Mul(LoanCeilingRatio)
}
