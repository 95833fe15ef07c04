package bank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empowerment/metrics"
	bankModels "empowerment/models/bank"

	"gorm.io/gorm"
)

// ErrUnavailable is returned when the ledger cannot answer in time.
var ErrUnavailable = errors.New("bank ledger unavailable")

// ErrNotFound is returned for unknown ledger rows.
var ErrNotFound = errors.New("bank loan record not found")

// Ledger answers whether a bank account currently carries an active loan.
type Ledger interface {
	HasActiveLoan(ctx context.Context, bankNo string) (bool, error)
}

// Store is the ledger kept in the bank database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HasActiveLoan(ctx context.Context, bankNo string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.BankLookupDuration.Observe(time.Since(start).Seconds())
	}()

	var count int64
	err := s.db.WithContext(ctx).
		Model(&bankModels.MockBankLoan{}).
		Where("bank_no = ? AND has_active_loan = ?", bankNo, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count > 0, nil
}

func (s *Store) List(ctx context.Context, bankNo string, offset, limit int) ([]bankModels.MockBankLoan, int64, error) {
	query := s.db.WithContext(ctx).Model(&bankModels.MockBankLoan{})
	if bankNo != "" {
		query = query.Where("bank_no = ?", bankNo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loans []bankModels.MockBankLoan
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&loans).Error; err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*bankModels.MockBankLoan, error) {
	var loan bankModels.MockBankLoan
	err := s.db.WithContext(ctx).First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (s *Store) Create(ctx context.Context, loan *bankModels.MockBankLoan) error {
	if loan.LoanStatus == "" {
		loan.LoanStatus = "N/A"
	}
	return s.db.WithContext(ctx).Create(loan).Error
}

func (s *Store) Save(ctx context.Context, loan *bankModels.MockBankLoan) error {
	return s.db.WithContext(ctx).Save(loan).Error
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&bankModels.MockBankLoan{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
