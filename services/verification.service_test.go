package services

import (
	"context"
	"fmt"
	"testing"

	"empowerment/bank"
	"empowerment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRequest_NoActiveLoanMakesApplicantVerified(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)
	req := f.requestFor(t, amina.ID)

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, req.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BankStatusVerified, res.BankStatus)
	assert.False(t, res.AlreadyVerified)
	assert.True(t, res.Request.IsVerifiedBySheha)
	assert.True(t, res.Request.IsRead)
	assert.NotNil(t, res.Request.VerifiedAt)

	stored, err := f.svc.GetApplicant(context.Background(), amina.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifiedBySheha)
	assert.True(t, stored.VerifiedByBank)
	assert.True(t, stored.OverallVerified())
	assert.Equal(t, models.BankStatusVerified, stored.BankStatus)

	msg := f.outbox.last()
	assert.Equal(t, fmt.Sprintf("verification:%d", req.ID), msg.DedupKey)
	assert.Equal(t, u.Email, msg.To)
	assert.Equal(t, "Application Status", msg.Subject)
	assert.Contains(t, msg.HTML, "approved")
}

func TestVerifyRequest_ActiveLoanRejects(t *testing.T) {
	f := newFixture(t)
	f.ledger.active["BK123"] = true
	sh := f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, amina.ID).ID)
	require.NoError(t, err)
	assert.Equal(t, models.BankStatusRejected, res.BankStatus)

	stored, err := f.svc.GetApplicant(context.Background(), amina.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifiedBySheha)
	assert.False(t, stored.VerifiedByBank)
	assert.False(t, stored.OverallVerified())
	assert.Contains(t, f.outbox.last().HTML, "rejected due to existing loan")
}

func TestVerifyRequest_NoBusiness(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	_, amina := f.register(t, "amina", "Magomeni")

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, amina.ID).ID)
	require.NoError(t, err)

	assert.Equal(t, models.BankStatusNoBusiness, res.BankStatus)
	assert.Zero(t, f.ledger.calls)
	stored, _ := f.svc.GetApplicant(context.Background(), amina.ID)
	assert.False(t, stored.VerifiedByBank)
}

func TestVerifyRequest_RepeatIsNoop(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)
	req := f.requestFor(t, amina.ID)

	_, err := f.svc.VerifyRequest(context.Background(), sh.UserID, req.ID)
	require.NoError(t, err)
	sent := len(f.outbox.keys())

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, req.ID)
	require.NoError(t, err)

	assert.True(t, res.AlreadyVerified)
	assert.Equal(t, models.BankStatusVerified, res.BankStatus)
	assert.Equal(t, 1, f.ledger.calls)
	assert.Len(t, f.outbox.keys(), sent)
}

func TestVerifyRequest_OtherShehaCannotSeeRequest(t *testing.T) {
	f := newFixture(t)
	f.sheha(t, "mzee", "Magomeni")
	stranger := f.sheha(t, "bibi", "Kwahani")
	_, amina := f.register(t, "amina", "Magomeni")

	_, err := f.svc.VerifyRequest(context.Background(), stranger.UserID, f.requestFor(t, amina.ID).ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyRequest_NonShehaForbidden(t *testing.T) {
	f := newFixture(t)
	f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")

	_, err := f.svc.VerifyRequest(context.Background(), u.ID, f.requestFor(t, amina.ID).ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyRequest_LedgerDownCommitsNothing(t *testing.T) {
	f := newFixture(t)
	f.ledger.err = fmt.Errorf("dial tcp: %w", bank.ErrUnavailable)
	sh := f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)
	req := f.requestFor(t, amina.ID)
	sent := len(f.outbox.keys())

	_, err := f.svc.VerifyRequest(context.Background(), sh.UserID, req.ID)
	require.ErrorIs(t, err, bank.ErrUnavailable)

	assert.False(t, f.requestFor(t, amina.ID).IsVerifiedBySheha)
	stored, _ := f.svc.GetApplicant(context.Background(), amina.ID)
	assert.False(t, stored.VerifiedBySheha)
	assert.Equal(t, models.BankStatusPending, stored.BankStatus)
	assert.Len(t, f.outbox.keys(), sent)

	f.ledger.err = nil
	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BankStatusVerified, res.BankStatus)
}

func TestListRequests_HidesVerifiedUnlessAsked(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	_, first := f.register(t, "amina", "Magomeni")
	f.register(t, "rehema", "Magomeni")

	_, err := f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, first.ID).ID)
	require.NoError(t, err)

	open, err := f.svc.ListRequests(context.Background(), sh.UserID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "rehema", open[0].Applicant.Name)

	all, err := f.svc.ListRequests(context.Background(), sh.UserID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	_, amina := f.register(t, "amina", "Magomeni")
	req := f.requestFor(t, amina.ID)

	got, err := f.svc.MarkRead(context.Background(), sh.UserID, req.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.False(t, got.IsVerifiedBySheha)
	assert.True(t, f.requestFor(t, amina.ID).IsRead)
}

func TestUpdateBusiness_NewBankNumberRechecks(t *testing.T) {
	f := newFixture(t)
	u, a := f.verifiedApplicant(t, "amina", 10000)
	f.ledger.active["BK-NEW"] = true

	stored, err := f.svc.ApplicantForUser(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateBusiness(context.Background(), u.ID, models.RoleApplicant, stored.Business.ID, BusinessInput{
		Name: "Duka", Location: "Magomeni", Type: "retail", AnnualIncome: stored.Business.AnnualIncome, BankNo: "BK-NEW",
	})
	require.NoError(t, err)

	after, _ := f.svc.GetApplicant(context.Background(), a.ID)
	assert.Equal(t, models.BankStatusRejected, after.BankStatus)
	assert.False(t, after.OverallVerified())
}

func TestSweepPendingBankChecks_RetriesDeferredChecks(t *testing.T) {
	f := newFixture(t)
	u, a := f.verifiedApplicant(t, "amina", 10000)
	stored, _ := f.svc.ApplicantForUser(context.Background(), u.ID)

	f.ledger.err = bank.ErrUnavailable
	_, err := f.svc.UpdateBusiness(context.Background(), u.ID, models.RoleApplicant, stored.Business.ID, BusinessInput{
		Name: "Duka", Location: "Magomeni", Type: "retail", AnnualIncome: stored.Business.AnnualIncome, BankNo: "BK-OTHER",
	})
	require.NoError(t, err)

	pending, _ := f.svc.GetApplicant(context.Background(), a.ID)
	assert.Equal(t, models.BankStatusPending, pending.BankStatus)

	_, err = f.svc.SweepPendingBankChecks(context.Background())
	assert.ErrorIs(t, err, bank.ErrUnavailable)

	f.ledger.err = nil
	n, err := f.svc.SweepPendingBankChecks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	done, _ := f.svc.GetApplicant(context.Background(), a.ID)
	assert.Equal(t, models.BankStatusVerified, done.BankStatus)
}

func TestRegisterBusiness_OnlyOnePerApplicant(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)

	_, err := f.svc.RegisterBusiness(context.Background(), u.ID, BusinessInput{
		Name: "Second", Location: "x", Type: "retail", BankNo: "BK999",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestInsertBusiness_DuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)

	dup := models.Business{ApplicantID: amina.ID, Name: "Second", Location: "x", Type: "retail", BankNo: "BK999"}
	err := insertBusiness(f.svc.DB, &dup)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, f.svc.DB.Model(&models.Business{}).Where("applicant_id = ?", amina.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckBankEligibility_Idempotent(t *testing.T) {
	f := newFixture(t)
	u, amina := f.register(t, "amina", "Magomeni")
	f.business(t, u.ID, "BK123", 10000)

	first, err := CheckBankEligibility(context.Background(), f.svc.DB, f.ledger, amina)
	require.NoError(t, err)
	afterFirst, err := f.svc.GetApplicant(context.Background(), amina.ID)
	require.NoError(t, err)

	second, err := CheckBankEligibility(context.Background(), f.svc.DB, f.ledger, amina)
	require.NoError(t, err)
	afterSecond, err := f.svc.GetApplicant(context.Background(), amina.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BankStatusVerified, first)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst.VerifiedByBank, afterSecond.VerifiedByBank)
	assert.Equal(t, afterFirst.BankStatus, afterSecond.BankStatus)
	assert.True(t, afterSecond.VerifiedByBank)
}

func TestRegisterBusiness_AfterShehaVerificationRunsBankCheck(t *testing.T) {
	f := newFixture(t)
	sh := f.sheha(t, "mzee", "Magomeni")
	u, amina := f.register(t, "amina", "Magomeni")

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, amina.ID).ID)
	require.NoError(t, err)
	assert.Equal(t, models.BankStatusNoBusiness, res.BankStatus)
	assert.Zero(t, f.ledger.calls)

	f.business(t, u.ID, "BK123", 10000)

	stored, err := f.svc.GetApplicant(context.Background(), amina.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledger.calls)
	assert.Equal(t, models.BankStatusVerified, stored.BankStatus)
	assert.True(t, stored.VerifiedByBank)
	assert.True(t, stored.OverallVerified())
}
