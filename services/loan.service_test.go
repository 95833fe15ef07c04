package services

import (
	"context"
	"fmt"
	"testing"

	"empowerment/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loanInput(amount int64) LoanApplicationInput {
	return LoanApplicationInput{
		AmountRequested: decimal.NewFromInt(amount),
		Purpose:         "Buy stock",
		RepaymentPeriod: 12,
	}
}

func TestSubmitLoanApplication_SeventyPercentCeiling(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)

	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(7000))
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, app.Decision)
	assert.True(t, app.AmountRequested.Equal(decimal.NewFromInt(7000)))

	_, err = f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(7001))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Requested amount exceeds 70% of business income (7000.00).", verr.Fields["amountRequested"])
}

func TestSubmitLoanApplication_FractionalBoundary(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 333)

	in := loanInput(0)
	in.AmountRequested = decimal.RequireFromString("233.10")
	_, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	require.NoError(t, err)

	in.AmountRequested = decimal.RequireFromString("233.11")
	_, err = f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["amountRequested"], "233.10")
}

func TestSubmitLoanApplication_RequiresBothVerifications(t *testing.T) {
	f := newFixture(t)
	f.ledger.active["BK123"] = true
	sh := f.sheha(t, "mzee", "Magomeni")
	u, a := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)

	_, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(1000))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, a.ID).ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(1000))
	assert.ErrorIs(t, err, ErrForbidden, "sheha approved but bank rejected")
}

func TestSubmitLoanApplication_NeedsBusiness(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "amina", "Magomeni")

	_, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(1000))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "business")
}

func TestSubmitLoanApplication_Expenses(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)

	in := loanInput(5000)
	in.Expenses = []ExpenseInput{
		{Item: "Fridge", Amount: decimal.NewFromInt(3000)},
		{Item: "Stock", Amount: decimal.NewFromInt(2500)},
	}
	_, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Total expenses (5500.00) exceed the requested amount (5000.00).", verr.Fields["expenses"])

	in.Expenses[1].Amount = decimal.NewFromInt(2000)
	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	require.NoError(t, err)
	assert.Len(t, app.Expenses, 2)

	got, err := f.svc.GetLoanApplication(context.Background(), u.ID, models.RoleApplicant, app.ID)
	require.NoError(t, err)
	assert.Len(t, got.Expenses, 2)
}

func TestSubmitLoanApplication_ExpenseItemNeedsName(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)

	in := loanInput(1000)
	in.Expenses = []ExpenseInput{{Amount: decimal.NewFromInt(100)}}
	_, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expenses[0].item")
}

func TestSubmitLoanApplication_LoanTypeMaximum(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 1000000)
	lt, err := f.svc.CreateLoanType(context.Background(), LoanTypeInput{Name: "Micro", MaxAmount: decimal.NewFromInt(50000)})
	require.NoError(t, err)

	in := loanInput(60000)
	in.LoanTypeID = &lt.ID
	_, err = f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Requested amount exceeds the maximum for Micro (50000.00).", verr.Fields["amountRequested"])

	missing := uint(999)
	in.LoanTypeID = &missing
	in.AmountRequested = decimal.NewFromInt(100)
	_, err = f.svc.SubmitLoanApplication(context.Background(), u.ID, in)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "loanTypeId")
}

func TestDecideLoanApplication_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)
	officer := f.officer(t)
	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(5000))
	require.NoError(t, err)

	decided, err := f.svc.DecideLoanApplication(context.Background(), officer.UserID, app.ID, models.DecisionApproved, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, models.DecisionApproved, decided.Decision)
	assert.Equal(t, "Approved by loan officer", decided.SystemComment)
	require.NotNil(t, decided.ReviewedByID)
	assert.Equal(t, officer.UserID, *decided.ReviewedByID)

	msg := f.outbox.last()
	assert.Equal(t, fmt.Sprintf("loan-decision:%d", app.ID), msg.DedupKey)
	assert.Equal(t, u.Email, msg.To)

	_, err = f.svc.DecideLoanApplication(context.Background(), officer.UserID, app.ID, models.DecisionRejected, DecisionInput{})
	assert.ErrorIs(t, err, ErrConflict)

	got, _ := f.svc.GetLoanApplication(context.Background(), 0, models.RoleAdmin, app.ID)
	assert.Equal(t, models.DecisionApproved, got.Decision)
}

func TestDecideLoanApplication_RejectWithCommentAndScore(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)
	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(5000))
	require.NoError(t, err)

	score := 35
	decided, err := f.svc.DecideLoanApplication(context.Background(), 1, app.ID, models.DecisionRejected,
		DecisionInput{Comment: "Plan lacks detail", Score: &score})
	require.NoError(t, err)
	assert.Equal(t, "Plan lacks detail", decided.SystemComment)
	assert.Equal(t, 35, decided.Score)
}

func TestDecideLoanApplication_UnknownApplication(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DecideLoanApplication(context.Background(), 1, 42, models.DecisionApproved, DecisionInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.DecideLoanApplication(context.Background(), 1, 42, "maybe", DecisionInput{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoanApplications_ApplicantSeesOnlyOwn(t *testing.T) {
	f := newFixture(t)
	amina, _ := f.verifiedApplicant(t, "amina", 10000)
	juma, _ := f.verifiedApplicant(t, "juma", 10000)

	app, err := f.svc.SubmitLoanApplication(context.Background(), amina.ID, loanInput(1000))
	require.NoError(t, err)

	_, err = f.svc.GetLoanApplication(context.Background(), juma.ID, models.RoleApplicant, app.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, total, err := f.svc.ListLoanApplications(context.Background(), juma.ID, models.RoleApplicant, LoanApplicationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	list, total, err = f.svc.ListLoanApplications(context.Background(), 0, models.RoleLoanOfficer, LoanApplicationFilter{Decision: models.DecisionPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestRecordRepayment(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)
	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(5000))
	require.NoError(t, err)

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: app.ID, Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, ErrConflict, "pending applications take no repayments")

	_, err = f.svc.DecideLoanApplication(context.Background(), 1, app.ID, models.DecisionApproved, DecisionInput{})
	require.NoError(t, err)

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: app.ID, Amount: decimal.NewFromInt(3000), PaidOn: "2026-03-01", Reference: "M-PESA 1"})
	require.NoError(t, err)

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: app.ID, Amount: decimal.NewFromInt(2001)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Amount exceeds the outstanding balance (2000.00).", verr.Fields["amount"])

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: app.ID, Amount: decimal.NewFromInt(2000)})
	require.NoError(t, err)

	loans, _, err := f.svc.ListLoans(context.Background(), u.ID, models.RoleApplicant, Page{})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.True(t, loans[0].Outstanding().IsZero())

	repayments, err := f.svc.ListRepayments(context.Background(), u.ID, models.RoleApplicant, app.ID)
	require.NoError(t, err)
	assert.Len(t, repayments, 2)
}

func TestRecordRepayment_RejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: 1, Amount: decimal.Zero})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: 1, Amount: decimal.NewFromInt(5), PaidOn: "01/03/2026"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "paidOn")

	_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: 77, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLoan_OnlyApproved(t *testing.T) {
	f := newFixture(t)
	u, _ := f.verifiedApplicant(t, "amina", 10000)
	app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(5000))
	require.NoError(t, err)

	_, err = f.svc.GetLoan(context.Background(), u.ID, models.RoleApplicant, app.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.DecideLoanApplication(context.Background(), 1, app.ID, models.DecisionApproved, DecisionInput{})
	require.NoError(t, err)

	loan, err := f.svc.GetLoan(context.Background(), u.ID, models.RoleApplicant, app.ID)
	require.NoError(t, err)
	assert.True(t, loan.Outstanding().Equal(decimal.NewFromInt(5000)))
}

func TestListAllRepayments_Scoped(t *testing.T) {
	f := newFixture(t)
	amina, _ := f.verifiedApplicant(t, "amina", 10000)
	juma, _ := f.verifiedApplicant(t, "juma", 10000)

	var loanIDs []uint
	for _, u := range []*models.User{amina, juma} {
		app, err := f.svc.SubmitLoanApplication(context.Background(), u.ID, loanInput(1000))
		require.NoError(t, err)
		_, err = f.svc.DecideLoanApplication(context.Background(), 1, app.ID, models.DecisionApproved, DecisionInput{})
		require.NoError(t, err)
		_, err = f.svc.RecordRepayment(context.Background(), 1, RepaymentInput{LoanApplicationID: app.ID, Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		loanIDs = append(loanIDs, app.ID)
	}

	all, total, err := f.svc.ListAllRepayments(context.Background(), 0, models.RoleLoanOfficer, RepaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	own, total, err := f.svc.ListAllRepayments(context.Background(), amina.ID, models.RoleApplicant, RepaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, own, 1)
	assert.Equal(t, loanIDs[0], own[0].LoanApplicationID)

	_, err = f.svc.GetRepayment(context.Background(), amina.ID, models.RoleApplicant, own[0].ID)
	require.NoError(t, err)

	jumas, _, err := f.svc.ListAllRepayments(context.Background(), 0, models.RoleAdmin, RepaymentFilter{LoanApplicationID: loanIDs[1]})
	require.NoError(t, err)
	require.Len(t, jumas, 1)
	_, err = f.svc.GetRepayment(context.Background(), amina.ID, models.RoleApplicant, jumas[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
