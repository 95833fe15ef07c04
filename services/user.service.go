package services

import (
	"context"
	"fmt"
	"strings"

	"empowerment/models"

	"gorm.io/gorm"
)

type UserUpdateInput struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	IsActive *bool  `json:"isActive"`
}

type UserFilter struct {
	Role string `query:"role" json:"role" validate:"omitempty,oneof=APPLICANT SHEHA LOAN_OFFICER ADMIN"`
	Page
}

func (s *Services) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p := f.Page.Normalize()
	var users []models.User
	err := q.Order("id").Offset(p.Offset()).Limit(p.Limit).Find(&users).Error
	return users, total, err
}

// UpdateUser edits contact details and the active flag. Role never changes.
func (s *Services) UpdateUser(ctx context.Context, id uint, in UserUpdateInput) (*models.User, error) {
	if verr := ValidateStruct(in); verr != nil {
		return nil, verr
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}
		email := strings.ToLower(strings.TrimSpace(in.Email))
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fieldError("email", "A user with that email already exists.")
		}
		user.Name, user.Email = strings.TrimSpace(in.Name), email
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeactivateUser disables the account. Rows that reference it stay intact.
func (s *Services) DeactivateUser(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}
