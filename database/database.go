package database

import (
	"fmt"
	"time"

	"empowerment/config"
	"empowerment/logger"
	"empowerment/models"
	bankModels "empowerment/models/bank"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instances
type DbInstance struct {
	Db     *gorm.DB
	BankDb *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	cfg := config.AppConfig
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal("failed to get database instance", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}

	Database.Db = db
}

// ConnectBankDb opens the mock bank ledger store.
func ConnectBankDb() {
	cfg := config.AppConfig
	db, err := OpenBank(cfg.BankDBDriver, cfg.BankDBDSN)
	if err != nil {
		logger.Log.Fatal("failed to open bank database", zap.String("driver", cfg.BankDBDriver), zap.Error(err))
	}
	if err := MigrateBank(db); err != nil {
		logger.Log.Fatal("bank migration failed", zap.Error(err))
	}
	Database.BankDb = db
}

// OpenBank picks the gorm dialector for the bank store.
func OpenBank(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported bank db driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	logger.Log.Info("running migrations")
	err := db.AutoMigrate(
		&models.User{},
		&models.Sheha{},
		&models.LoanOfficer{},
		&models.Applicant{},
		&models.Business{},
		&models.VerificationRequest{},
		&models.LoanType{},
		&models.LoanApplication{},
		&models.LoanExpenseItem{},
		&models.Repayment{},
		&models.EmailTask{},
		&models.RevokedToken{},
		&models.LoginRecord{},
	)
	if err != nil {
		return err
	}
	logger.Log.Info("migrations completed")
	return nil
}

func MigrateBank(db *gorm.DB) error {
	return db.AutoMigrate(&bankModels.MockBankLoan{})
}
