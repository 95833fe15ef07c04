package bankValidator

import (
	"time"

	bankModels "empowerment/models/bank"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BankLoanRequest struct {
	BankNo           string          `json:"bankNo" validate:"required,max=20"`
	ApplicantName    string          `json:"applicantName" validate:"required,max=100"`
	HasActiveLoan    bool            `json:"hasActiveLoan"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	LoanStatus       string          `json:"loanStatus" validate:"max=20"`
	BalanceRemaining decimal.Decimal `json:"balanceRemaining"`
	LastPaymentDate  string          `json:"lastPaymentDate" validate:"omitempty,datetime=2006-01-02"`
}

// Apply copies the request onto a ledger row.
func (r BankLoanRequest) Apply(loan *bankModels.MockBankLoan) {
	loan.BankNo = r.BankNo
	loan.ApplicantName = r.ApplicantName
	loan.HasActiveLoan = r.HasActiveLoan
	loan.LoanAmount = r.LoanAmount
	loan.LoanStatus = r.LoanStatus
	loan.BalanceRemaining = r.BalanceRemaining
	loan.LastPaymentDate = nil
	if t, err := time.Parse("2006-01-02", r.LastPaymentDate); err == nil {
		d := datatypes.Date(t)
		loan.LastPaymentDate = &d
	}
}

type ActiveLoanQuery struct {
	BankNo string `query:"bank_no" json:"bank_no" validate:"required,max=20"`
}

type ListQuery struct {
	BankNo string `query:"bank_no" json:"bank_no" validate:"max=20"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func BankLoan() fiber.Handler {
	return validators.Body[BankLoanRequest]("validatedBankLoan")
}

func ActiveLoan() fiber.Handler {
	return validators.Query[ActiveLoanQuery]("validatedQuery")
}

func List() fiber.Handler {
	return validators.Query[ListQuery]("validatedQuery")
}
