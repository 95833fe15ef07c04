package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"empowerment/metrics"
	"empowerment/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	statusSending = "sending"
	staleAfter    = 5 * time.Minute
	sendTimeout   = 30 * time.Second
	sweepBatch    = 100
)

// Message is one email to queue. Messages sharing a DedupKey are sent once.
type Message struct {
	DedupKey string
	To       string
	Subject  string
	HTML     string
}

// Dispatcher persists messages to the email_tasks outbox and delivers them
// from a small worker pool, off the request path.
type Dispatcher struct {
	db          *gorm.DB
	mailer      Mailer
	log         *zap.Logger
	queue       chan uint
	maxAttempts int
	wg          sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, mailer Mailer, log *zap.Logger, queueSize, maxAttempts int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{
		db:          db,
		mailer:      mailer,
		log:         log,
		queue:       make(chan uint, queueSize),
		maxAttempts: maxAttempts,
	}
}

// Enqueue records the message and hands it to the workers. It never blocks on
// delivery; a full queue leaves the row for the next sweep.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) error {
	if msg.To == "" {
		d.log.Debug("skipping email without recipient", zap.String("dedupKey", msg.DedupKey))
		return nil
	}

	task := models.EmailTask{
		DedupKey:  msg.DedupKey,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Body:      msg.HTML,
		Status:    models.EmailQueued,
	}
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedup_key"}}, DoNothing: true}).
		Create(&task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		d.log.Debug("email already queued", zap.String("dedupKey", msg.DedupKey))
		return nil
	}

	select {
	case d.queue <- task.ID:
	default:
		d.log.Warn("email queue full, leaving task for sweep", zap.Uint("taskId", task.ID))
	}
	return nil
}

// Start launches the delivery workers. They exit when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-d.queue:
					d.deliver(ctx, id)
				}
			}
		}()
	}
}

// Wait blocks until all workers have returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// SweepPending delivers queued tasks and retries failed ones that still have
// attempts left. Returns how many tasks it tried.
func (d *Dispatcher) SweepPending(ctx context.Context) (int, error) {
	var ids []uint
	err := d.db.WithContext(ctx).
		Model(&models.EmailTask{}).
		Where("status = ? OR (status = ? AND attempts < ?) OR (status = ? AND updated_at < ?)",
			models.EmailQueued, models.EmailFailed, d.maxAttempts, statusSending, time.Now().Add(-staleAfter)).
		Order("id ASC").
		Limit(sweepBatch).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		d.deliver(ctx, id)
	}
	return len(ids), nil
}

func (d *Dispatcher) deliver(ctx context.Context, id uint) {
	// Claim the row so a worker and the sweep never send the same task twice.
	claim := d.db.WithContext(ctx).
		Model(&models.EmailTask{}).
		Where("id = ? AND (status = ? OR (status = ? AND attempts < ?) OR (status = ? AND updated_at < ?))",
			id, models.EmailQueued, models.EmailFailed, d.maxAttempts, statusSending, time.Now().Add(-staleAfter)).
		Updates(map[string]interface{}{
			"status":   statusSending,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if claim.Error != nil {
		d.log.Error("claiming email task", zap.Uint("taskId", id), zap.Error(claim.Error))
		return
	}
	if claim.RowsAffected == 0 {
		return
	}

	var task models.EmailTask
	if err := d.db.WithContext(ctx).First(&task, id).Error; err != nil {
		d.log.Error("loading email task", zap.Uint("taskId", id), zap.Error(err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err := d.mailer.Send(sendCtx, task.Recipient, task.Subject, task.Body)
	cancel()

	if err != nil {
		metrics.EmailsProcessed.WithLabelValues("failed").Inc()
		d.log.Error("email delivery failed",
			zap.Uint("taskId", task.ID),
			zap.String("dedupKey", task.DedupKey),
			zap.Int("attempts", task.Attempts),
			zap.Error(err))
		d.mark(task.ID, map[string]interface{}{"status": models.EmailFailed, "last_error": err.Error()})
		return
	}

	metrics.EmailsProcessed.WithLabelValues("sent").Inc()
	now := time.Now()
	d.mark(task.ID, map[string]interface{}{"status": models.EmailSent, "sent_at": &now, "last_error": ""})
}

func (d *Dispatcher) mark(id uint, fields map[string]interface{}) {
	// Not bound to the worker ctx.
	err := d.db.Model(&models.EmailTask{}).Where("id = ?", id).Updates(fields).Error
	if err != nil && !errors.Is(err, context.Canceled) {
		d.log.Error("updating email task", zap.Uint("taskId", id), zap.Error(err))
	}
}
