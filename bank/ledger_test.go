package bank

import (
	"context"
	"testing"

	bankModels "empowerment/models/bank"
	"empowerment/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBankDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t, &bankModels.MockBankLoan{})
}

func TestStore_HasActiveLoan(t *testing.T) {
	store := NewStore(setupBankDB(t))
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &bankModels.MockBankLoan{BankNo: "BK1", ApplicantName: "A", HasActiveLoan: true, LoanAmount: decimal.NewFromInt(500)}))
	require.NoError(t, store.Create(ctx, &bankModels.MockBankLoan{BankNo: "BK2", ApplicantName: "B", HasActiveLoan: false}))

	active, err := store.HasActiveLoan(ctx, "BK1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = store.HasActiveLoan(ctx, "BK2")
	require.NoError(t, err)
	assert.False(t, active, "a settled record is not an active loan")

	active, err = store.HasActiveLoan(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestStore_CRUD(t *testing.T) {
	store := NewStore(setupBankDB(t))
	ctx := context.Background()

	loan := &bankModels.MockBankLoan{BankNo: "BK9", ApplicantName: "Zuhura"}
	require.NoError(t, store.Create(ctx, loan))
	assert.Equal(t, "N/A", loan.LoanStatus)

	got, err := store.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK9", got.BankNo)

	got.HasActiveLoan = true
	require.NoError(t, store.Save(ctx, got))

	loans, total, err := store.List(ctx, "BK9", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, loans[0].HasActiveLoan)

	require.NoError(t, store.Delete(ctx, loan.ID))
	_, err = store.Get(ctx, loan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, loan.ID), ErrNotFound)
}
