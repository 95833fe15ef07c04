package services

import (
	"context"
	"errors"
	"fmt"

	"empowerment/bank"
	"empowerment/metrics"
	"empowerment/models"
	"empowerment/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckBankEligibility asks the ledger about the applicant's business and
// stores the outcome. db may be a transaction.
//
// no business row         -> "no business found", not bank-verified
// active loan at the bank -> "rejected", not bank-verified
// otherwise               -> "verified", bank-verified
func CheckBankEligibility(ctx context.Context, db *gorm.DB, ledger bank.Ledger, applicant *models.Applicant) (string, error) {
	var business models.Business
	err := db.WithContext(ctx).Where("applicant_id = ?", applicant.ID).First(&business).Error

	var status string
	var verified bool
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = models.BankStatusNoBusiness
	case err != nil:
		return "", err
	default:
		active, err := ledger.HasActiveLoan(ctx, business.BankNo)
		if err != nil {
			return "", err
		}
		if active {
			status = models.BankStatusRejected
		} else {
			status, verified = models.BankStatusVerified, true
		}
	}

	err = db.WithContext(ctx).Model(&models.Applicant{}).
		Where("id = ?", applicant.ID).
		Updates(map[string]interface{}{"verified_by_bank": verified, "bank_status": status}).Error
	if err != nil {
		return "", err
	}

	applicant.VerifiedByBank = verified
	applicant.BankStatus = status
	metrics.BankChecks.WithLabelValues(status).Inc()
	return status, nil
}

// VerificationResult is what a sheha sees after approving a request.
type VerificationResult struct {
	Request         models.VerificationRequest `json:"request"`
	BankStatus      string                     `json:"bankStatus"`
	AlreadyVerified bool                       `json:"alreadyVerified"`
}

func (s *Services) shehaForUser(ctx context.Context, userID uint) (*models.Sheha, error) {
	var sheha models.Sheha
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sheha).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no sheha profile for user %d: %w", userID, ErrForbidden)
	}
	return &sheha, err
}

// VerifyRequest records the sheha's approval and runs the bank check in the
// same transaction. A repeat call reports the stored bank status and sends
// nothing. When the ledger is unreachable nothing is committed.
func (s *Services) VerifyRequest(ctx context.Context, shehaUserID, requestID uint) (*VerificationResult, error) {
	sheha, err := s.shehaForUser(ctx, shehaUserID)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{}
	var recipient string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req := &result.Request
		err := tx.Preload("Applicant.User").
			Where("id = ? AND sheha_id = ?", requestID, sheha.ID).
			First(req).Error
		if err != nil {
			return notFound(err, "verification request")
		}

		verifiedAt := s.now()
		claim := tx.Model(&models.VerificationRequest{}).
			Where("id = ? AND is_verified_by_sheha = ?", req.ID, false).
			Updates(map[string]interface{}{
				"is_read":              true,
				"is_verified_by_sheha": true,
				"verified_at":          verifiedAt,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			result.AlreadyVerified = true
			result.BankStatus = req.Applicant.BankStatus
			return nil
		}

		applicant := &req.Applicant
		if err := tx.Model(&models.Applicant{}).Where("id = ?", applicant.ID).Update("verified_by_sheha", true).Error; err != nil {
			return err
		}
		applicant.VerifiedBySheha = true

		status, err := CheckBankEligibility(ctx, tx, s.Ledger, applicant)
		if err != nil {
			return fmt.Errorf("bank check for applicant %d: %w", applicant.ID, err)
		}
		result.BankStatus = status
		recipient = applicant.User.Email

		req.IsRead, req.IsVerifiedBySheha, req.VerifiedAt = true, true, &verifiedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyVerified {
		s.Log.Info("applicant verified by sheha",
			zap.Uint("requestId", requestID),
			zap.Uint("applicantId", result.Request.ApplicantID),
			zap.String("bankStatus", result.BankStatus))
		s.notify(ctx, utils.ApplicationStatusEmail(result.Request.ID, recipient, result.Request.Applicant))
	}
	return result, nil
}

// RecheckBankStatus re-runs the bank check for one applicant.
func (s *Services) RecheckBankStatus(ctx context.Context, applicantID uint) (*models.Applicant, error) {
	applicant, err := s.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if _, err := CheckBankEligibility(ctx, s.DB, s.Ledger, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// SweepPendingBankChecks retries applicants the sheha approved while the
// bank status never moved past pending.
func (s *Services) SweepPendingBankChecks(ctx context.Context) (int, error) {
	var pending []models.Applicant
	err := s.DB.WithContext(ctx).
		Where("verified_by_sheha = ? AND bank_status = ?", true, models.BankStatusPending).
		Limit(100).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range pending {
		if _, err := CheckBankEligibility(ctx, s.DB, s.Ledger, &pending[i]); err != nil {
			if errors.Is(err, bank.ErrUnavailable) {
				return done, err
			}
			s.Log.Warn("bank recheck failed", zap.Uint("applicantId", pending[i].ID), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

// ListRequests returns the sheha's queue, newest first. Approved requests are
// included only when all is set.
func (s *Services) ListRequests(ctx context.Context, shehaUserID uint, all bool) ([]models.VerificationRequest, error) {
	sheha, err := s.shehaForUser(ctx, shehaUserID)
	if err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Preload("Applicant.Business").Where("sheha_id = ?", sheha.ID)
	if !all {
		q = q.Where("is_verified_by_sheha = ?", false)
	}

	var requests []models.VerificationRequest
	err = q.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (s *Services) GetRequest(ctx context.Context, shehaUserID, requestID uint) (*models.VerificationRequest, error) {
	sheha, err := s.shehaForUser(ctx, shehaUserID)
	if err != nil {
		return nil, err
	}

	var req models.VerificationRequest
	err = s.DB.WithContext(ctx).
		Preload("Applicant.Business").
		Where("id = ? AND sheha_id = ?", requestID, sheha.ID).
		First(&req).Error
	if err != nil {
		return nil, notFound(err, "verification request")
	}
	return &req, nil
}

// MarkRead flags a request as seen without approving it.
func (s *Services) MarkRead(ctx context.Context, shehaUserID, requestID uint) (*models.VerificationRequest, error) {
	req, err := s.GetRequest(ctx, shehaUserID, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsRead {
		return req, nil
	}
	if err := s.DB.WithContext(ctx).Model(&models.VerificationRequest{}).Where("id = ?", req.ID).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	req.IsRead = true
	return req, nil
}
