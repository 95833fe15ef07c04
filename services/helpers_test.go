package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"empowerment/bank"
	"empowerment/models"
	"empowerment/notify"
	"empowerment/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type fakeLedger struct {
	mu     sync.Mutex
	active map[string]bool
	err    error
	calls  int
}

func (l *fakeLedger) HasActiveLoan(_ context.Context, bankNo string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return false, l.err
	}
	return l.active[bankNo], nil
}

type recordingOutbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (o *recordingOutbox) Enqueue(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *recordingOutbox) keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.msgs))
	for _, m := range o.msgs {
		keys = append(keys, m.DedupKey)
	}
	return keys
}

func (o *recordingOutbox) last() notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.msgs[len(o.msgs)-1]
}

var allModels = []interface{}{
	&models.User{}, &models.Sheha{}, &models.LoanOfficer{}, &models.Applicant{},
	&models.Business{}, &models.VerificationRequest{}, &models.LoanType{},
	&models.LoanApplication{}, &models.LoanExpenseItem{}, &models.Repayment{},
	&models.LoginRecord{},
}

type fixture struct {
	svc    *Services
	ledger *fakeLedger
	outbox *recordingOutbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := &fakeLedger{active: map[string]bool{}}
	outbox := &recordingOutbox{}
	svc := &Services{
		DB:        testutil.NewSQLiteDB(t, allModels...),
		Ledger:    ledger,
		Outbox:    outbox,
		Log:       zaptest.NewLogger(t),
		SaltRound: bcrypt.MinCost,
	}
	return &fixture{svc: svc, ledger: ledger, outbox: outbox}
}

func (f *fixture) sheha(t *testing.T, username, ward string) *models.Sheha {
	t.Helper()
	sh, err := f.svc.CreateSheha(context.Background(), ShehaInput{
		AccountInput: AccountInput{Username: username, Email: username + "@example.com", Password: "s3cretpass", Name: "Sheha " + username},
		Age:          50,
		Gender:       "male",
		Phone:        "+255712000001",
		Ward:         ward,
	})
	require.NoError(t, err)
	return sh
}

func (f *fixture) applicantUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.svc.Signup(context.Background(), AccountInput{Username: username, Email: username + "@example.com", Password: "s3cretpass", Name: username})
	require.NoError(t, err)
	return u
}

func applicantInput(name, ward string) ApplicantInput {
	return ApplicantInput{
		Name:          name,
		Age:           30,
		Gender:        "female",
		MaritalStatus: "single",
		Region:        "Dar es Salaam",
		District:      "Kinondoni",
		Ward:          ward,
		Village:       "Mtaa wa Kati",
		Phone:         "+255712345678",
	}
}

func (f *fixture) register(t *testing.T, username, ward string) (*models.User, *models.Applicant) {
	t.Helper()
	u := f.applicantUser(t, username)
	a, err := f.svc.RegisterApplicant(context.Background(), u.ID, applicantInput(username, ward))
	require.NoError(t, err)
	return u, a
}

func (f *fixture) business(t *testing.T, userID uint, bankNo string, income int64) *models.Business {
	t.Helper()
	b, err := f.svc.RegisterBusiness(context.Background(), userID, BusinessInput{
		Name:         "Duka",
		Location:     "Magomeni",
		Type:         "retail",
		AnnualIncome: decimal.NewFromInt(income),
		BankNo:       bankNo,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) requestFor(t *testing.T, applicantID uint) models.VerificationRequest {
	t.Helper()
	var req models.VerificationRequest
	require.NoError(t, f.svc.DB.Where("applicant_id = ?", applicantID).First(&req).Error)
	return req
}

// verifiedApplicant walks an applicant through sheha and bank approval.
func (f *fixture) verifiedApplicant(t *testing.T, username string, income int64) (*models.User, *models.Applicant) {
	t.Helper()
	ward := "Ward-" + username
	sh := f.sheha(t, "sheha-"+username, ward)
	u, a := f.register(t, username, ward)
	f.business(t, u.ID, fmt.Sprintf("BK-%s", username), income)

	res, err := f.svc.VerifyRequest(context.Background(), sh.UserID, f.requestFor(t, a.ID).ID)
	require.NoError(t, err)
	require.Equal(t, models.BankStatusVerified, res.BankStatus)
	return u, a
}

func (f *fixture) officer(t *testing.T) *models.LoanOfficer {
	t.Helper()
	o, err := f.svc.CreateLoanOfficer(context.Background(), LoanOfficerInput{
		AccountInput: AccountInput{Username: "officer", Email: "officer@example.com", Password: "s3cretpass"},
		Age:          40,
		Gender:       "female",
		Office:       "HQ",
		Phone:        "+255712000002",
	})
	require.NoError(t, err)
	return o
}

var _ bank.Ledger = (*fakeLedger)(nil)
