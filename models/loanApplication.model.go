package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Decision values. No transition leads back to pending.
const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

type LoanType struct {
	gorm.Model
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	MaxAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"maxAmount"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

type LoanApplication struct {
	gorm.Model
	ApplicantID      uint              `gorm:"index;not null" json:"applicantId"`
	Applicant        *Applicant        `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	BusinessID       uint              `gorm:"index;not null" json:"businessId"`
	Business         *Business         `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	LoanTypeID       *uint             `json:"loanTypeId"`
	LoanType         *LoanType         `gorm:"foreignKey:LoanTypeID" json:"loanType,omitempty"`
	AmountRequested  decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amountRequested"`
	Purpose          string            `gorm:"type:text" json:"purpose"`
	RepaymentPeriod  int               `json:"repaymentPeriod"` // months
	BusinessOverview string            `gorm:"type:text" json:"businessOverview"`
	MarketAnalysis   string            `gorm:"type:text" json:"marketAnalysis"`
	FinancialInfo    string            `gorm:"type:text" json:"financialInfo"`
	GrowthStrategy   string            `gorm:"type:text" json:"growthStrategy"`
	PlanAttachment   string            `gorm:"default:''" json:"planAttachment"`
	Expenses         []LoanExpenseItem `gorm:"foreignKey:LoanApplicationID" json:"expenses"`
	Score            int               `gorm:"default:0" json:"score"`
	Decision         string            `gorm:"type:varchar(10);default:'pending';index" json:"decision"`
	SystemComment    string            `gorm:"type:text" json:"systemComment"`
	ReviewedByID     *uint             `json:"reviewedById"`
	ReviewedAt       *time.Time        `json:"reviewedAt"`
	Repayments       []Repayment       `gorm:"foreignKey:LoanApplicationID" json:"repayments,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// Outstanding is what remains after the recorded repayments.
func (l LoanApplication) Outstanding() decimal.Decimal {
	paid := decimal.Zero
	for _, r := range l.Repayments {
		paid = paid.Add(r.Amount)
	}
	return l.AmountRequested.Sub(paid)
}

type LoanExpenseItem struct {
	gorm.Model
	LoanApplicationID uint            `gorm:"index;not null" json:"loanApplicationId"`
	Item              string          `gorm:"not null" json:"item"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
}

func (LoanExpenseItem) TableName() string {
	return "loan_expense_items"
}

// Repayment is recorded against an approved loan application.
type Repayment struct {
	gorm.Model
	LoanApplicationID uint            `gorm:"index;not null" json:"loanApplicationId"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidOn            datatypes.Date  `json:"paidOn"`
	Reference         string          `json:"reference"`
	RecordedByID      uint            `json:"recordedById"`
}

func (Repayment) TableName() string {
	return "repayments"
}
