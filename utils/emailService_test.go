package utils

import (
	"testing"

	"empowerment/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestBankStatusSummary(t *testing.T) {
	assert.Equal(t, "approved", BankStatusSummary(models.BankStatusVerified))
	assert.Equal(t, "rejected due to existing loan", BankStatusSummary(models.BankStatusRejected))
	assert.Equal(t, "rejected (no business info)", BankStatusSummary(models.BankStatusNoBusiness))
	assert.Equal(t, "status unknown", BankStatusSummary("pending"))
}

func TestNewApplicantEmail_EscapesNames(t *testing.T) {
	sheha := models.Sheha{Name: "Mzee", Email: "mzee@example.com"}
	applicant := models.Applicant{Model: gorm.Model{ID: 7}, Name: "<b>Amina</b>", Village: "Kati"}

	msg := NewApplicantEmail(sheha, applicant)

	assert.Equal(t, "new-applicant:7", msg.DedupKey)
	assert.Equal(t, "mzee@example.com", msg.To)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Amina&lt;/b&gt;")
	assert.NotContains(t, msg.HTML, "<b>Amina</b>")
}

func TestLoanDecisionEmail(t *testing.T) {
	app := models.LoanApplication{
		Model:           gorm.Model{ID: 3},
		AmountRequested: decimal.NewFromInt(7000),
		Decision:        models.DecisionApproved,
		SystemComment:   "Approved by loan officer",
	}

	msg := LoanDecisionEmail("amina@example.com", models.Applicant{Name: "Amina"}, app)

	assert.Equal(t, "loan-decision:3", msg.DedupKey)
	assert.Equal(t, "Loan Application approved", msg.Subject)
	assert.Contains(t, msg.HTML, "7000.00")
}
