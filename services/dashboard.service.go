package services

import (
	"context"

	"empowerment/models"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

type DashboardSummary struct {
	Applicants            int64           `json:"applicants"`
	AwaitingSheha         int64           `json:"awaitingSheha"`
	Unassigned            int64           `json:"unassigned"`
	BankVerified          int64           `json:"bankVerified"`
	FullyVerified         int64           `json:"fullyVerified"`
	PendingApplications   int64           `json:"pendingApplications"`
	ApprovedApplications  int64           `json:"approvedApplications"`
	RejectedApplications  int64           `json:"rejectedApplications"`
	ApplicationsThisMonth int64           `json:"applicationsThisMonth"`
	ApprovedAmount        decimal.Decimal `json:"approvedAmount"`
	RepaidAmount          decimal.Decimal `json:"repaidAmount"`
}

// Dashboard aggregates workflow counters for officers and admins.
func (s *Services) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	db := s.DB.WithContext(ctx)
	sum := &DashboardSummary{}

	counts := []struct {
		dst   *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&sum.Applicants, &models.Applicant{}, "1 = 1", nil},
		{&sum.AwaitingSheha, &models.Applicant{}, "sheha_id IS NOT NULL AND verified_by_sheha = ?", []interface{}{false}},
		{&sum.Unassigned, &models.Applicant{}, "sheha_id IS NULL", nil},
		{&sum.BankVerified, &models.Applicant{}, "verified_by_bank = ?", []interface{}{true}},
		{&sum.FullyVerified, &models.Applicant{}, "verified_by_sheha = ? AND verified_by_bank = ?", []interface{}{true, true}},
		{&sum.PendingApplications, &models.LoanApplication{}, "decision = ?", []interface{}{models.DecisionPending}},
		{&sum.ApprovedApplications, &models.LoanApplication{}, "decision = ?", []interface{}{models.DecisionApproved}},
		{&sum.RejectedApplications, &models.LoanApplication{}, "decision = ?", []interface{}{models.DecisionRejected}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	month := now.New(s.now())
	err := db.Model(&models.LoanApplication{}).
		Where("created_at BETWEEN ? AND ?", month.BeginningOfMonth(), month.EndOfMonth()).
		Count(&sum.ApplicationsThisMonth).Error
	if err != nil {
		return nil, err
	}

	var approved []models.LoanApplication
	if err := db.Select("id", "amount_requested").Where("decision = ?", models.DecisionApproved).Find(&approved).Error; err != nil {
		return nil, err
	}
	sum.ApprovedAmount = decimal.Zero
	for _, a := range approved {
		sum.ApprovedAmount = sum.ApprovedAmount.Add(a.AmountRequested)
	}

	var repayments []models.Repayment
	if err := db.Select("id", "amount").Find(&repayments).Error; err != nil {
		return nil, err
	}
	sum.RepaidAmount = decimal.Zero
	for _, r := range repayments {
		sum.RepaidAmount = sum.RepaidAmount.Add(r.Amount)
	}
	return sum, nil
}
