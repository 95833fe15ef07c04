package bank

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MockBankLoan is a row of the external bank ledger, kept in its own database.
type MockBankLoan struct {
	gorm.Model
	BankNo           string          `gorm:"type:varchar(20);not null;index" json:"bankNo"`
	ApplicantName    string          `gorm:"not null" json:"applicantName"`
	HasActiveLoan    bool            `gorm:"default:false" json:"hasActiveLoan"`
	LoanAmount       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"loanAmount"`
	LoanStatus       string          `gorm:"type:varchar(20);default:'N/A'" json:"loanStatus"`
	BalanceRemaining decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"balanceRemaining"`
	LastPaymentDate  *datatypes.Date `json:"lastPaymentDate"`
}

func (MockBankLoan) TableName() string {
	return "mock_bank_loans"
}
