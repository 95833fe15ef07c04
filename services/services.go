package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"empowerment/bank"
	"empowerment/notify"
	"empowerment/tokens"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Notifier queues outbound email. Implemented by notify.Dispatcher.
type Notifier interface {
	Enqueue(ctx context.Context, msg notify.Message) error
}

// Services bundles what the workflow needs. One instance serves all requests.
type Services struct {
	DB        *gorm.DB
	Ledger    bank.Ledger
	Outbox    Notifier
	Tokens    tokens.Blacklist
	Log       *zap.Logger
	SaltRound int
	Now       func() time.Time
}

// App is the instance the HTTP controllers use. Set during startup.
var App *Services

func (s *Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// notify never fails the caller; delivery problems end up in the log.
func (s *Services) notify(ctx context.Context, msg notify.Message) {
	if s.Outbox == nil {
		return
	}
	if err := s.Outbox.Enqueue(context.WithoutCancel(ctx), msg); err != nil {
		s.Log.Error("queueing email", zap.String("dedupKey", msg.DedupKey), zap.Error(err))
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// Page is a 1-based page request.
type Page struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}
