package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empowerment/metrics"
	"empowerment/models"
	"empowerment/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseInput struct {
	Item        string          `json:"item" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

type LoanApplicationInput struct {
	LoanTypeID       *uint           `json:"loanTypeId"`
	AmountRequested  decimal.Decimal `json:"amountRequested"`
	Purpose          string          `json:"purpose" validate:"required"`
	RepaymentPeriod  int             `json:"repaymentPeriod" validate:"required,gt=0,lte=120"`
	BusinessOverview string          `json:"businessOverview"`
	MarketAnalysis   string          `json:"marketAnalysis"`
	FinancialInfo    string          `json:"financialInfo"`
	GrowthStrategy   string          `json:"growthStrategy"`
	PlanAttachment   string          `json:"planAttachment"`
	Expenses         []ExpenseInput  `json:"expenses" validate:"dive"`
}

type DecisionInput struct {
	Comment string `json:"comment" validate:"max=1000"`
	Score   *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
}

type RepaymentInput struct {
	LoanApplicationID uint            `json:"loanApplicationId" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
	PaidOn            string          `json:"paidOn" validate:"omitempty,datetime=2006-01-02"`
	Reference         string          `json:"reference" validate:"max=100"`
}

type LoanApplicationFilter struct {
	Decision string `query:"decision"`
	Page
}

// SubmitLoanApplication files a request for a dual-verified applicant.
// The amount may not exceed LoanCeilingRatio of the business income, nor the
// loan type maximum, and the itemised expenses must fit inside it.
func (s *Services) SubmitLoanApplication(ctx context.Context, userID uint, in LoanApplicationInput) (*models.LoanApplication, error) {
	verr := ValidateStruct(in)
	if verr == nil {
		verr = &ValidationError{Fields: map[string]string{}}
	}

	applicant, err := s.ApplicantForUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, fieldError("applicant", "No applicant profile linked to this account.")
	}
	if err != nil {
		return nil, err
	}
	if applicant.Business == nil {
		return nil, fieldError("business", "No business registered for this applicant.")
	}
	if !applicant.OverallVerified() {
		return nil, fmt.Errorf("applicant %d is not verified by both sheha and bank: %w", applicant.ID, ErrForbidden)
	}

	business := applicant.Business
	amount := in.AmountRequested
	switch ceiling := business.LoanCeiling(); {
	case !amount.IsPositive():
		verr.Fields["amountRequested"] = "Amount must be greater than zero."
	case amount.GreaterThan(ceiling):
		verr.Fields["amountRequested"] = fmt.Sprintf("Requested amount exceeds 70%% of business income (%s).", ceiling.StringFixed(2))
	}

	if in.LoanTypeID != nil {
		var loanType models.LoanType
		err := s.DB.WithContext(ctx).First(&loanType, *in.LoanTypeID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Fields["loanTypeId"] = "Unknown loan type."
		case err != nil:
			return nil, err
		case amount.GreaterThan(loanType.MaxAmount):
			if _, taken := verr.Fields["amountRequested"]; !taken {
				verr.Fields["amountRequested"] = fmt.Sprintf("Requested amount exceeds the maximum for %s (%s).", loanType.Name, loanType.MaxAmount.StringFixed(2))
			}
		}
	}

	total := decimal.Zero
	for i, e := range in.Expenses {
		if !e.Amount.IsPositive() {
			verr.Fields[fmt.Sprintf("expenses[%d].amount", i)] = "Amount must be greater than zero."
		}
		total = total.Add(e.Amount)
	}
	if total.GreaterThan(amount) {
		verr.Fields["expenses"] = fmt.Sprintf("Total expenses (%s) exceed the requested amount (%s).", total.StringFixed(2), amount.StringFixed(2))
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	application := models.LoanApplication{
		ApplicantID:      applicant.ID,
		BusinessID:       business.ID,
		LoanTypeID:       in.LoanTypeID,
		AmountRequested:  amount,
		Purpose:          in.Purpose,
		RepaymentPeriod:  in.RepaymentPeriod,
		BusinessOverview: in.BusinessOverview,
		MarketAnalysis:   in.MarketAnalysis,
		FinancialInfo:    in.FinancialInfo,
		GrowthStrategy:   in.GrowthStrategy,
		PlanAttachment:   in.PlanAttachment,
		Decision:         models.DecisionPending,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&application).Error; err != nil {
			return err
		}
		if len(in.Expenses) == 0 {
			return nil
		}
		items := make([]models.LoanExpenseItem, 0, len(in.Expenses))
		for _, e := range in.Expenses {
			items = append(items, models.LoanExpenseItem{
				LoanApplicationID: application.ID,
				Item:              e.Item,
				Description:       e.Description,
				Amount:            e.Amount,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		application.Expenses = items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving loan application: %w", err)
	}

	s.Log.Info("loan application submitted",
		zap.Uint("applicationId", application.ID),
		zap.Uint("applicantId", applicant.ID),
		zap.String("amount", amount.StringFixed(2)))
	return &application, nil
}

// DecideLoanApplication moves a pending application to approved or rejected.
// Deciding twice is a conflict.
func (s *Services) DecideLoanApplication(ctx context.Context, reviewerID, id uint, decision string, in DecisionInput) (*models.LoanApplication, error) {
	if decision != models.DecisionApproved && decision != models.DecisionRejected {
		return nil, fieldError("decision", "Must be one of: approved rejected.")
	}
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	comment := in.Comment
	if comment == "" {
		if decision == models.DecisionApproved {
			comment = "Approved by loan officer"
		} else {
			comment = "Rejected by loan officer"
		}
	}

	var application models.LoanApplication
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"decision":       decision,
			"system_comment": comment,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    s.now(),
		}
		if in.Score != nil {
			updates["score"] = *in.Score
		}

		res := tx.Model(&models.LoanApplication{}).
			Where("id = ? AND decision = ?", id, models.DecisionPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Preload("Applicant.User").Preload("Business").First(&application, id).Error; err != nil {
			return notFound(err, "loan application")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("loan application %d already %s: %w", id, application.Decision, ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LoanDecisions.WithLabelValues(decision).Inc()
	s.Log.Info("loan application decided",
		zap.Uint("applicationId", id),
		zap.String("decision", decision),
		zap.Uint("reviewerId", reviewerID))

	if a := application.Applicant; a != nil {
		s.notify(ctx, utils.LoanDecisionEmail(a.User.Email, *a, application))
	}
	return &application, nil
}

// applicationScope limits applicant accounts to their own applications.
func (s *Services) applicationScope(ctx context.Context, userID uint, role models.Role) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&models.LoanApplication{})
	if role == models.RoleApplicant {
		q = q.Where("applicant_id IN (?)",
			s.DB.Model(&models.Applicant{}).Select("id").Where("user_id = ?", userID))
	}
	return q
}

func (s *Services) ListLoanApplications(ctx context.Context, userID uint, role models.Role, f LoanApplicationFilter) ([]models.LoanApplication, int64, error) {
	q := s.applicationScope(ctx, userID, role)
	if f.Decision != "" {
		q = q.Where("decision = ?", f.Decision)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := f.Page.Normalize()
	var apps []models.LoanApplication
	err := q.Preload("Applicant").Preload("Expenses").Preload("LoanType").
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&apps).Error
	return apps, total, err
}

func (s *Services) GetLoanApplication(ctx context.Context, userID uint, role models.Role, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := s.applicationScope(ctx, userID, role).
		Preload("Applicant").Preload("Business").Preload("Expenses").Preload("LoanType").Preload("Repayments").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, notFound(err, "loan application")
	}
	return &app, nil
}

// ListLoans returns approved applications with their repayments.
func (s *Services) ListLoans(ctx context.Context, userID uint, role models.Role, p Page) ([]models.LoanApplication, int64, error) {
	q := s.applicationScope(ctx, userID, role).Where("decision = ?", models.DecisionApproved)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p = p.Normalize()
	var loans []models.LoanApplication
	err := q.Preload("Applicant").Preload("Repayments").
		Order("reviewed_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&loans).Error
	return loans, total, err
}

// RecordRepayment books a payment against an approved loan. Payments may not
// exceed what is outstanding.
func (s *Services) RecordRepayment(ctx context.Context, recorderID uint, in RepaymentInput) (*models.Repayment, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}
	if !in.Amount.IsPositive() {
		return nil, fieldError("amount", "Amount must be greater than zero.")
	}

	paidOn := s.now()
	if in.PaidOn != "" {
		parsed, err := time.Parse("2006-01-02", in.PaidOn)
		if err != nil {
			return nil, fieldError("paidOn", "Date has wrong format. Use 2006-01-02.")
		}
		paidOn = parsed
	}

	repayment := models.Repayment{
		LoanApplicationID: in.LoanApplicationID,
		Amount:            in.Amount,
		PaidOn:            datatypes.Date(paidOn),
		Reference:         in.Reference,
		RecordedByID:      recorderID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.LoanApplication
		if err := tx.Preload("Repayments").First(&app, in.LoanApplicationID).Error; err != nil {
			return notFound(err, "loan application")
		}
		if app.Decision != models.DecisionApproved {
			return fmt.Errorf("loan application %d is %s: %w", app.ID, app.Decision, ErrConflict)
		}
		if outstanding := app.Outstanding(); in.Amount.GreaterThan(outstanding) {
			return fieldError("amount", fmt.Sprintf("Amount exceeds the outstanding balance (%s).", outstanding.StringFixed(2)))
		}
		return tx.Omit(clause.Associations).Create(&repayment).Error
	})
	if err != nil {
		return nil, err
	}
	return &repayment, nil
}

func (s *Services) ListRepayments(ctx context.Context, userID uint, role models.Role, loanID uint) ([]models.Repayment, error) {
	if _, err := s.GetLoanApplication(ctx, userID, role, loanID); err != nil {
		return nil, err
	}
	var repayments []models.Repayment
	err := s.DB.WithContext(ctx).Where("loan_application_id = ?", loanID).Order("paid_on, id").Find(&repayments).Error
	return repayments, err
}

// GetLoan returns one approved application.
func (s *Services) GetLoan(ctx context.Context, userID uint, role models.Role, id uint) (*models.LoanApplication, error) {
	app, err := s.GetLoanApplication(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}
	if app.Decision != models.DecisionApproved {
		return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	return app, nil
}

type RepaymentFilter struct {
	LoanApplicationID uint `query:"loan" json:"loan"`
	Page
}

// ListAllRepayments lists repayments visible to the caller, newest first.
func (s *Services) ListAllRepayments(ctx context.Context, userID uint, role models.Role, f RepaymentFilter) ([]models.Repayment, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Repayment{}).
		Where("loan_application_id IN (?)", s.applicationScope(ctx, userID, role).Select("id"))
	if f.LoanApplicationID != 0 {
		q = q.Where("loan_application_id = ?", f.LoanApplicationID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	var repayments []models.Repayment
	err := q.Order("paid_on DESC, id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&repayments).Error
	return repayments, total, err
}

func (s *Services) GetRepayment(ctx context.Context, userID uint, role models.Role, id uint) (*models.Repayment, error) {
	var repayment models.Repayment
	err := s.DB.WithContext(ctx).
		Where("loan_application_id IN (?)", s.applicationScope(ctx, userID, role).Select("id")).
		First(&repayment, id).Error
	if err != nil {
		return nil, notFound(err, "repayment")
	}
	return &repayment, nil
}
