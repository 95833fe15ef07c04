package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EmailQueued = "queued"
	EmailSent   = "sent"
	EmailFailed = "failed"
)

// EmailTask is an outbox row. DedupKey makes each notification fire at most once.
type EmailTask struct {
	gorm.Model
	DedupKey  string     `gorm:"uniqueIndex;not null" json:"dedupKey"`
	Recipient string     `gorm:"not null" json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `gorm:"type:text" json:"-"`
	Status    string     `gorm:"type:varchar(10);default:'queued';index" json:"status"`
	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError string     `gorm:"type:text" json:"lastError"`
	SentAt    *time.Time `json:"sentAt"`
}

func (EmailTask) TableName() string {
	return "email_tasks"
}

// RevokedToken backs the refresh-token blacklist when redis is not configured.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
