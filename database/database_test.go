package database

import (
	"testing"

	"empowerment/models"
	bankModels "empowerment/models/bank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBank_UnknownDriver(t *testing.T) {
	_, err := OpenBank("oracle", "x")
	assert.ErrorContains(t, err, "unsupported bank db driver")
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := OpenBank("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateBank(db))

	assert.True(t, db.Migrator().HasTable(&models.VerificationRequest{}))
	assert.True(t, db.Migrator().HasTable("notifications"))
	assert.True(t, db.Migrator().HasTable(&bankModels.MockBankLoan{}))
	assert.True(t, db.Migrator().HasIndex(&models.Sheha{}, "idx_shehas_ward"))
}
