package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"empowerment/bank"
	"empowerment/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BusinessInput struct {
	Name                string          `json:"name" validate:"required,max=100"`
	RegistrationNumber  string          `json:"registrationNumber" validate:"max=100"`
	Location            string          `json:"location" validate:"required,max=100"`
	Type                string          `json:"type" validate:"required,max=50"`
	AnnualIncome        decimal.Decimal `json:"annualIncome"`
	BankNo              string          `json:"bankNo" validate:"required,max=20"`
	DeclarationAccepted bool            `json:"declarationAccepted"`
}

func (in BusinessInput) validate() *ValidationError {
	verr := ValidateStruct(in)
	if in.AnnualIncome.IsNegative() {
		if verr == nil {
			verr = &ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["annualIncome"] = "Annual income cannot be negative."
	}
	return verr
}

// RegisterBusiness attaches the caller's single business. If the sheha has
// already approved the applicant the bank check runs straight away.
func (s *Services) RegisterBusiness(ctx context.Context, userID uint, in BusinessInput) (*models.Business, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	applicant, err := s.ApplicantForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	business := models.Business{
		ApplicantID:         applicant.ID,
		Name:                strings.TrimSpace(in.Name),
		RegistrationNumber:  in.RegistrationNumber,
		Location:            in.Location,
		Type:                in.Type,
		AnnualIncome:        in.AnnualIncome,
		BankNo:              strings.TrimSpace(in.BankNo),
		DeclarationAccepted: in.DeclarationAccepted,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Business{}).Where("applicant_id = ?", applicant.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("applicant %d already has a business: %w", applicant.ID, ErrConflict)
		}
		return insertBusiness(tx, &business)
	})
	if err != nil {
		return nil, err
	}

	if applicant.VerifiedBySheha {
		s.recheckAfterBusinessChange(ctx, applicant)
	}
	return &business, nil
}

// insertBusiness relies on the per-applicant unique index, so a concurrent
// registration that slipped past the count still ends as a conflict.
func insertBusiness(tx *gorm.DB, business *models.Business) error {
	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(business)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("applicant %d already has a business: %w", business.ApplicantID, ErrConflict)
	}
	return nil
}

// recheckAfterBusinessChange leaves the status at pending when the bank is
// down; the scheduler picks it up from there.
func (s *Services) recheckAfterBusinessChange(ctx context.Context, applicant *models.Applicant) {
	_, err := CheckBankEligibility(ctx, s.DB, s.Ledger, applicant)
	if err == nil {
		return
	}
	if errors.Is(err, bank.ErrUnavailable) {
		s.Log.Warn("bank unavailable, check deferred", zap.Uint("applicantId", applicant.ID))
		return
	}
	s.Log.Error("bank check after business change", zap.Uint("applicantId", applicant.ID), zap.Error(err))
}

// UpdateBusiness lets the owner (or an admin) edit the business. A new bank
// number invalidates the previous bank outcome.
func (s *Services) UpdateBusiness(ctx context.Context, userID uint, role models.Role, id uint, in BusinessInput) (*models.Business, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	business, err := s.GetBusiness(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}

	bankNo := strings.TrimSpace(in.BankNo)
	bankChanged := bankNo != business.BankNo

	var applicant models.Applicant
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":                 strings.TrimSpace(in.Name),
			"registration_number":  in.RegistrationNumber,
			"location":             in.Location,
			"type":                 in.Type,
			"annual_income":        in.AnnualIncome,
			"bank_no":              bankNo,
			"declaration_accepted": in.DeclarationAccepted,
		}
		if err := tx.Model(&models.Business{}).Where("id = ?", business.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&applicant, business.ApplicantID).Error; err != nil {
			return err
		}
		if !bankChanged || !applicant.VerifiedBySheha {
			return nil
		}
		applicant.VerifiedByBank, applicant.BankStatus = false, models.BankStatusPending
		return tx.Model(&models.Applicant{}).Where("id = ?", applicant.ID).
			Updates(map[string]interface{}{"verified_by_bank": false, "bank_status": models.BankStatusPending}).Error
	})
	if err != nil {
		return nil, err
	}

	if bankChanged && applicant.VerifiedBySheha {
		s.recheckAfterBusinessChange(ctx, &applicant)
	}
	return s.GetBusiness(ctx, userID, role, id)
}

// GetBusiness hides other applicants' businesses from applicant accounts.
func (s *Services) GetBusiness(ctx context.Context, userID uint, role models.Role, id uint) (*models.Business, error) {
	q := s.DB.WithContext(ctx).Model(&models.Business{})
	if role == models.RoleApplicant {
		q = q.Joins("JOIN applicants ON applicants.id = businesses.applicant_id AND applicants.deleted_at IS NULL").
			Where("applicants.user_id = ?", userID)
	}

	var business models.Business
	if err := q.Where("businesses.id = ?", id).First(&business).Error; err != nil {
		return nil, notFound(err, "business")
	}
	return &business, nil
}

func (s *Services) ListBusinesses(ctx context.Context, userID uint, role models.Role, p Page) ([]models.Business, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Business{})
	if role == models.RoleApplicant {
		q = q.Joins("JOIN applicants ON applicants.id = businesses.applicant_id AND applicants.deleted_at IS NULL").
			Where("applicants.user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p = p.Normalize()
	var businesses []models.Business
	err := q.Order("businesses.id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&businesses).Error
	return businesses, total, err
}

func (s *Services) DeleteBusiness(ctx context.Context, userID uint, role models.Role, id uint) error {
	business, err := s.GetBusiness(ctx, userID, role, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(business).Error
}
