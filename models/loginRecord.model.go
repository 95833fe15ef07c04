package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginRecord is written on every successful login.
type LoginRecord struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"userId"`
	IPAddress string    `gorm:"size:100" json:"ipAddress"`
	Device    string    `gorm:"size:255" json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
