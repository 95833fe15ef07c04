package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"empowerment/models"
	"empowerment/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"max=100"`
}

type ShehaInput struct {
	AccountInput
	Age    int    `json:"age" validate:"required,gt=0,lte=150"`
	Gender string `json:"gender" validate:"required,max=10"`
	Phone  string `json:"phone" validate:"required,phone"`
	Ward   string `json:"ward" validate:"required,max=100"`
}

type ShehaUpdateInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Age    int    `json:"age" validate:"required,gt=0,lte=150"`
	Gender string `json:"gender" validate:"required,max=10"`
	Phone  string `json:"phone" validate:"required,phone"`
	Email  string `json:"email" validate:"required,email"`
	Ward   string `json:"ward" validate:"required,max=100"`
}

type LoanOfficerInput struct {
	AccountInput
	Age    int    `json:"age" validate:"required,gt=0,lte=150"`
	Gender string `json:"gender" validate:"required,max=10"`
	Office string `json:"office" validate:"required,max=100"`
	Phone  string `json:"phone" validate:"required,phone"`
}

func (s *Services) hashPassword(password string) (string, error) {
	cost := s.SaltRound
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// createAccount inserts a user after checking username and email are free.
func (s *Services) createAccount(tx *gorm.DB, in AccountInput, role models.Role) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var taken models.User
	err := tx.Unscoped().Where("username = ? OR email = ?", username, email).First(&taken).Error
	switch {
	case err == nil && taken.Username == username:
		return nil, fieldError("username", "A user with that username already exists.")
	case err == nil:
		return nil, fieldError("email", "A user with that email already exists.")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Signup creates an applicant account.
func (s *Services) Signup(ctx context.Context, in AccountInput) (*models.User, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}
	user, err := s.createAccount(s.DB.WithContext(ctx), in, models.RoleApplicant)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, utils.WelcomeEmail(*user))
	return user, nil
}

// Authenticate checks credentials and stamps the login time.
func (s *Services) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.DB.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		s.Log.Warn("updating last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	user.LastLogin = &now
	return &user, nil
}

func (s *Services) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// EnsureAdmin creates the bootstrap admin once. Existing accounts are left
// untouched.
func (s *Services) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if email == "" {
		email = username + "@localhost"
	}
	_, err := s.createAccount(s.DB.WithContext(ctx), AccountInput{Username: username, Email: email, Password: password, Name: "Administrator"}, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("creating admin: %w", err)
	}
	return true, nil
}

// CreateSheha creates the account and the ward profile together, then adopts
// applicants that registered in the ward before it had a sheha.
func (s *Services) CreateSheha(ctx context.Context, in ShehaInput) (*models.Sheha, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var sheha models.Sheha
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ward := strings.TrimSpace(in.Ward)
		if err := wardIsFree(tx, ward, 0); err != nil {
			return err
		}
		user, err := s.createAccount(tx, in.AccountInput, models.RoleSheha)
		if err != nil {
			return err
		}
		sheha = models.Sheha{
			UserID: user.ID,
			Name:   firstNonEmpty(in.Name, user.Username),
			Age:    in.Age,
			Gender: in.Gender,
			Phone:  in.Phone,
			Email:  user.Email,
			Ward:   ward,
		}
		return tx.Omit(clause.Associations).Create(&sheha).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.AdoptUnassignedApplicants(ctx, sheha); err != nil {
		s.Log.Error("adopting applicants for new sheha", zap.Uint("shehaId", sheha.ID), zap.Error(err))
	}
	return &sheha, nil
}

func wardIsFree(tx *gorm.DB, ward string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Sheha{}).Where("ward = ? AND id <> ?", ward, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fieldError("ward", "A sheha is already assigned to this ward.")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// UpdateSheha edits the profile. Moving to a new ward adopts that ward's
// waiting applicants; already assigned applicants keep their sheha.
func (s *Services) UpdateSheha(ctx context.Context, id uint, in ShehaUpdateInput) (*models.Sheha, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var sheha models.Sheha
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sheha, id).Error; err != nil {
			return notFound(err, "sheha")
		}
		ward := strings.TrimSpace(in.Ward)
		if err := wardIsFree(tx, ward, sheha.ID); err != nil {
			return err
		}
		sheha.Name, sheha.Age, sheha.Gender = in.Name, in.Age, in.Gender
		sheha.Phone, sheha.Email, sheha.Ward = in.Phone, in.Email, ward
		return tx.Omit(clause.Associations).Save(&sheha).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.AdoptUnassignedApplicants(ctx, sheha); err != nil {
		s.Log.Error("adopting applicants after ward change", zap.Uint("shehaId", sheha.ID), zap.Error(err))
	}
	return &sheha, nil
}

func (s *Services) ListShehas(ctx context.Context, p Page) ([]models.Sheha, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Sheha{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p = p.Normalize()
	var shehas []models.Sheha
	err := s.DB.WithContext(ctx).Order("ward").Offset(p.Offset()).Limit(p.Limit).Find(&shehas).Error
	return shehas, total, err
}

func (s *Services) GetSheha(ctx context.Context, id uint) (*models.Sheha, error) {
	var sheha models.Sheha
	if err := s.DB.WithContext(ctx).First(&sheha, id).Error; err != nil {
		return nil, notFound(err, "sheha")
	}
	return &sheha, nil
}

// DeleteSheha retires the profile and deactivates its account. The ward
// becomes free for a successor; past requests stay as history.
func (s *Services) DeleteSheha(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sheha models.Sheha
		if err := tx.First(&sheha, id).Error; err != nil {
			return notFound(err, "sheha")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", sheha.UserID).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&sheha).Error
	})
}

func (s *Services) CreateLoanOfficer(ctx context.Context, in LoanOfficerInput) (*models.LoanOfficer, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var officer models.LoanOfficer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.createAccount(tx, in.AccountInput, models.RoleLoanOfficer)
		if err != nil {
			return err
		}
		officer = models.LoanOfficer{
			UserID: user.ID,
			Name:   firstNonEmpty(in.Name, user.Username),
			Gender: in.Gender,
			Age:    in.Age,
			Office: in.Office,
			Email:  user.Email,
			Phone:  in.Phone,
		}
		return tx.Omit(clause.Associations).Create(&officer).Error
	})
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

func (s *Services) ListLoanOfficers(ctx context.Context, p Page) ([]models.LoanOfficer, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.LoanOfficer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p = p.Normalize()
	var officers []models.LoanOfficer
	err := s.DB.WithContext(ctx).Order("id").Offset(p.Offset()).Limit(p.Limit).Find(&officers).Error
	return officers, total, err
}

func (s *Services) DeleteLoanOfficer(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var officer models.LoanOfficer
		if err := tx.First(&officer, id).Error; err != nil {
			return notFound(err, "loan officer")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", officer.UserID).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&officer).Error
	})
}

func (s *Services) GetLoanOfficer(ctx context.Context, id uint) (*models.LoanOfficer, error) {
	var officer models.LoanOfficer
	if err := s.DB.WithContext(ctx).First(&officer, id).Error; err != nil {
		return nil, notFound(err, "loan officer")
	}
	return &officer, nil
}

type LoanOfficerUpdateInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Age    int    `json:"age" validate:"required,gt=0,lte=150"`
	Gender string `json:"gender" validate:"required,max=10"`
	Office string `json:"office" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required,phone"`
}

func (s *Services) UpdateLoanOfficer(ctx context.Context, id uint, in LoanOfficerUpdateInput) (*models.LoanOfficer, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}
	officer, err := s.GetLoanOfficer(ctx, id)
	if err != nil {
		return nil, err
	}
	officer.Name, officer.Age, officer.Gender = in.Name, in.Age, in.Gender
	officer.Office, officer.Email, officer.Phone = in.Office, in.Email, in.Phone
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(officer).Error; err != nil {
		return nil, err
	}
	return officer, nil
}

// RecordLogin stores where a login came from. Failures are logged only.
func (s *Services) RecordLogin(ctx context.Context, userID uint, ip, device string) {
	if len(device) > 255 {
		device = device[:255]
	}
	record := models.LoginRecord{UserID: userID, IPAddress: ip, Device: device, Timestamp: s.now()}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		s.Log.Warn("saving login record", zap.Uint("userId", userID), zap.Error(err))
	}
}

func (s *Services) LoginHistory(ctx context.Context, userID uint, p Page) ([]models.LoginRecord, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.LoginRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p = p.Normalize()
	var records []models.LoginRecord
	err := q.Order("timestamp DESC, id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&records).Error
	return records, total, err
}
