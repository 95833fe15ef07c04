package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationRequest is one pending sheha approval for one applicant.
// Rows are kept after approval as the audit trail.
type VerificationRequest struct {
	gorm.Model
	ShehaID           uint       `gorm:"index;not null" json:"shehaId"`
	Sheha             Sheha      `gorm:"foreignKey:ShehaID" json:"-"`
	ApplicantID       uint       `gorm:"index;not null" json:"applicantId"`
	Applicant         Applicant  `gorm:"foreignKey:ApplicantID" json:"applicant"`
	IsRead            bool       `gorm:"default:false" json:"isRead"`
	IsVerifiedBySheha bool       `gorm:"default:false" json:"isVerifiedBySheha"`
	VerifiedAt        *time.Time `json:"verifiedAt"`
}

func (VerificationRequest) TableName() string {
	return "notifications"
}
