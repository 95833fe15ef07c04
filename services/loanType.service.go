package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"empowerment/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanTypeInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	MaxAmount   decimal.Decimal `json:"maxAmount"`
}

// DefaultLoanTypes are seeded on first start.
var DefaultLoanTypes = []models.LoanType{
	{Name: "Business Startup", Description: "Capital to open a new business.", MaxAmount: decimal.NewFromInt(5000000)},
	{Name: "Business Expansion", Description: "Stock, equipment or premises for a running business.", MaxAmount: decimal.NewFromInt(10000000)},
	{Name: "Agriculture", Description: "Seeds, inputs and tools for farming.", MaxAmount: decimal.NewFromInt(3000000)},
}

func (in LoanTypeInput) validate() *ValidationError {
	verr := ValidateStruct(in)
	if !in.MaxAmount.IsPositive() {
		if verr == nil {
			verr = &ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["maxAmount"] = "Amount must be greater than zero."
	}
	return verr
}

func (s *Services) CreateLoanType(ctx context.Context, in LoanTypeInput) (*models.LoanType, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	name := strings.TrimSpace(in.Name)
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.LoanType{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fieldError("name", "A loan type with that name already exists.")
	}

	lt := models.LoanType{Name: name, Description: in.Description, MaxAmount: in.MaxAmount}
	if err := s.DB.WithContext(ctx).Create(&lt).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *Services) UpdateLoanType(ctx context.Context, id uint, in LoanTypeInput) (*models.LoanType, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	var lt models.LoanType
	if err := s.DB.WithContext(ctx).First(&lt, id).Error; err != nil {
		return nil, notFound(err, "loan type")
	}
	lt.Name, lt.Description, lt.MaxAmount = strings.TrimSpace(in.Name), in.Description, in.MaxAmount
	if err := s.DB.WithContext(ctx).Save(&lt).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *Services) ListLoanTypes(ctx context.Context) ([]models.LoanType, error) {
	var types []models.LoanType
	err := s.DB.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

func (s *Services) DeleteLoanType(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.LoanType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("loan type %d: %w", id, ErrNotFound)
	}
	return nil
}

// SeedLoanTypes inserts DefaultLoanTypes that are missing by name.
func SeedLoanTypes(db *gorm.DB) error {
	for _, lt := range DefaultLoanTypes {
		var existing models.LoanType
		err := db.Where("name = ?", lt.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		lt := lt
		if err := db.Create(&lt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Services) GetLoanType(ctx context.Context, id uint) (*models.LoanType, error) {
	var lt models.LoanType
	if err := s.DB.WithContext(ctx).First(&lt, id).Error; err != nil {
		return nil, notFound(err, "loan type")
	}
	return &lt, nil
}
