package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"empowerment/metrics"
	"empowerment/models"
	"empowerment/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicantInput struct {
	Name          string `json:"name" validate:"required,max=100"`
	Age           int    `json:"age" validate:"required,gt=0,lte=150"`
	Gender        string `json:"gender" validate:"required,max=10"`
	MaritalStatus string `json:"maritalStatus" validate:"required,max=20"`
	Region        string `json:"region" validate:"required,max=100"`
	District      string `json:"district" validate:"required,max=100"`
	Ward          string `json:"ward" validate:"required,max=100"`
	Village       string `json:"village" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,phone"`
}

type ApplicantFilter struct {
	Name string `query:"name"`
	Ward string `query:"ward"`
	Page
}

// RegisterApplicant stores the profile, links the ward's sheha if there is
// one, and tells that sheha by email once the rows are committed.
func (s *Services) RegisterApplicant(ctx context.Context, userID uint, in ApplicantInput) (*models.Applicant, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	applicant := models.Applicant{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		Age:           in.Age,
		Gender:        in.Gender,
		MaritalStatus: in.MaritalStatus,
		Region:        in.Region,
		District:      in.District,
		Ward:          strings.TrimSpace(in.Ward),
		Village:       in.Village,
		Phone:         in.Phone,
		BankStatus:    models.BankStatusPending,
	}

	var sheha *models.Sheha
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&applicant).Error; err != nil {
			return err
		}
		var err error
		sheha, err = assignIntermediary(tx, &applicant)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("registering applicant: %w", err)
	}

	metrics.ApplicantRegistrations.WithLabelValues(strconv.FormatBool(sheha != nil)).Inc()
	if sheha == nil {
		s.Log.Info("no sheha for ward yet", zap.Uint("applicantId", applicant.ID), zap.String("ward", applicant.Ward))
		return &applicant, nil
	}

	applicant.Sheha = sheha
	s.notify(ctx, utils.NewApplicantEmail(*sheha, applicant))
	return &applicant, nil
}

// assignIntermediary links the applicant to the sheha of its ward and opens
// a verification request. Returns nil when the ward has no sheha.
func assignIntermediary(tx *gorm.DB, applicant *models.Applicant) (*models.Sheha, error) {
	var sheha models.Sheha
	err := tx.Where("ward = ?", applicant.Ward).First(&sheha).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&models.Applicant{}).Where("id = ?", applicant.ID).Update("sheha_id", sheha.ID).Error; err != nil {
		return nil, err
	}
	applicant.ShehaID = &sheha.ID

	req := models.VerificationRequest{ShehaID: sheha.ID, ApplicantID: applicant.ID}
	if err := tx.Omit(clause.Associations).Create(&req).Error; err != nil {
		return nil, err
	}
	return &sheha, nil
}

// AdoptUnassignedApplicants hands every sheha-less applicant of the sheha's
// ward to that sheha. Returns how many were adopted.
func (s *Services) AdoptUnassignedApplicants(ctx context.Context, sheha models.Sheha) (int, error) {
	var adopted []models.Applicant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []models.Applicant
		if err := tx.Where("ward = ? AND sheha_id IS NULL", sheha.Ward).Order("id").Find(&pending).Error; err != nil {
			return err
		}
		for i := range pending {
			assigned, err := assignIntermediary(tx, &pending[i])
			if err != nil {
				return err
			}
			if assigned != nil {
				adopted = append(adopted, pending[i])
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("adopting applicants for ward %q: %w", sheha.Ward, err)
	}

	for _, a := range adopted {
		s.notify(ctx, utils.NewApplicantEmail(sheha, a))
	}
	if len(adopted) > 0 {
		s.Log.Info("applicants adopted", zap.String("ward", sheha.Ward), zap.Int("count", len(adopted)))
	}
	return len(adopted), nil
}

// SweepUnassigned runs adoption for every ward that has both a sheha and
// applicants still waiting for one.
func (s *Services) SweepUnassigned(ctx context.Context) (int, error) {
	db := s.DB.WithContext(ctx)
	waiting := db.Model(&models.Applicant{}).Select("ward").Where("sheha_id IS NULL")

	var shehas []models.Sheha
	if err := db.Where("ward IN (?)", waiting).Find(&shehas).Error; err != nil {
		return 0, err
	}

	total := 0
	for _, sh := range shehas {
		n, err := s.AdoptUnassignedApplicants(ctx, sh)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ApplicantForUser returns the applicant profile owned by the account.
func (s *Services) ApplicantForUser(ctx context.Context, userID uint) (*models.Applicant, error) {
	var applicant models.Applicant
	err := s.DB.WithContext(ctx).
		Preload("Sheha").
		Preload("Business").
		Where("user_id = ?", userID).
		Order("id").
		First(&applicant).Error
	if err != nil {
		return nil, notFound(err, "applicant profile")
	}
	return &applicant, nil
}

func (s *Services) GetApplicant(ctx context.Context, id uint) (*models.Applicant, error) {
	var applicant models.Applicant
	err := s.DB.WithContext(ctx).Preload("Sheha").Preload("Business").First(&applicant, id).Error
	if err != nil {
		return nil, notFound(err, "applicant")
	}
	return &applicant, nil
}

// ListApplicants filters by case-insensitive name fragment and exact ward.
func (s *Services) ListApplicants(ctx context.Context, f ApplicantFilter) ([]models.Applicant, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Applicant{})
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Ward != "" {
		q = q.Where("ward = ?", f.Ward)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page.Normalize()
	var applicants []models.Applicant
	err := q.Preload("Business").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&applicants).Error
	return applicants, total, err
}

// UpdateApplicant edits demographic fields. Verification flags are owned by
// the workflow and never set here.
func (s *Services) UpdateApplicant(ctx context.Context, id uint, in ApplicantInput) (*models.Applicant, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var sheha *models.Sheha
	var applicant models.Applicant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&applicant, id).Error; err != nil {
			return notFound(err, "applicant")
		}
		// The verification request lives with the assigned sheha's ward.
		if applicant.ShehaID != nil && strings.TrimSpace(in.Ward) != applicant.Ward {
			return fieldError("ward", "Ward cannot change once a sheha is assigned.")
		}
		updates := map[string]interface{}{
			"name":           strings.TrimSpace(in.Name),
			"age":            in.Age,
			"gender":         in.Gender,
			"marital_status": in.MaritalStatus,
			"region":         in.Region,
			"district":       in.District,
			"ward":           strings.TrimSpace(in.Ward),
			"village":        in.Village,
			"phone":          in.Phone,
		}
		if err := tx.Model(&applicant).Updates(updates).Error; err != nil {
			return err
		}
		if applicant.ShehaID != nil {
			return nil
		}
		applicant.Ward = updates["ward"].(string)
		applicant.Name = updates["name"].(string)
		applicant.Village = in.Village
		var err error
		sheha, err = assignIntermediary(tx, &applicant)
		return err
	})
	if err != nil {
		return nil, err
	}

	if sheha != nil {
		s.notify(ctx, utils.NewApplicantEmail(*sheha, applicant))
	}
	return s.GetApplicant(ctx, id)
}

func (s *Services) DeleteApplicant(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Applicant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("applicant %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Services) SetPassportPath(ctx context.Context, userID uint, path string) (*models.Applicant, error) {
	applicant, err := s.ApplicantForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(applicant).Update("passport_path", path).Error; err != nil {
		return nil, err
	}
	applicant.PassportPath = path
	return applicant, nil
}
