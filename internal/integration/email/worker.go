package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/email/templates"
)

// WorkerConfig tunes the delivery loop. Zero fields take the defaults.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// ClaimTimeout is how long a claimed job may stay in processing before
	// another tick returns it to pending.
	ClaimTimeout time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.ClaimTimeout <= 0 {
		c.ClaimTimeout = 5 * time.Minute
	}
	return c
}

// Worker drains the outbox. Every tick it releases stale claims, claims a
// batch and settles each job as sent, retried or failed.
type Worker struct {
	outbox  adapter.EmailOutbox
	sender  adapter.EmailSender
	catalog *templates.Catalog
	metrics adapter.MetricsRecorder
	cfg     WorkerConfig
	now     func() time.Time
}

// NewWorker creates a Worker. A nil metrics recorder discards counters.
func NewWorker(
	outbox adapter.EmailOutbox,
	sender adapter.EmailSender,
	catalog *templates.Catalog,
	metrics adapter.MetricsRecorder,
	cfg WorkerConfig,
) *Worker {
	if metrics == nil {
		metrics = adapter.NoopMetrics{}
	}
	return &Worker{
		outbox:  outbox,
		sender:  sender,
		catalog: catalog,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.InfoContext(ctx, "Email worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
	)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessNow(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow runs a single tick and returns how many jobs it delivered.
func (w *Worker) ProcessNow(ctx context.Context) int {
	now := w.now()

	if released, err := w.outbox.ReleaseStale(ctx, now.Add(-w.cfg.ClaimTimeout)); err != nil {
		slog.ErrorContext(ctx, "Failed to release stale email claims", "error", err)
	} else if released > 0 {
		slog.WarnContext(ctx, "Released stale email claims", "count", released)
	}

	jobs, err := w.outbox.Claim(ctx, now, w.cfg.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to claim email jobs", "error", err)
		return 0
	}

	sent := 0
	for _, job := range jobs {
		// Unprocessed claims go back to pending after ClaimTimeout.
		if ctx.Err() != nil {
			break
		}
		if w.deliver(ctx, job) {
			sent++
		}
	}
	return sent
}

func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) bool {
	logger := slog.With("job_id", job.ID, "template", job.TemplateType)

	msg, err := w.catalog.Render(string(job.TemplateType), job.TemplateData)
	if err != nil {
		w.fail(ctx, logger, job, domainerror.NewEmailError(domainerror.ErrCodeInvalidTemplate, "cannot render email", err))
		return false
	}

	receipt, err := w.sender.Send(ctx, adapter.OutgoingEmail{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		if ctx.Err() != nil {
			// Left claimed; ReleaseStale retries it without spending an attempt.
			logger.InfoContext(ctx, "Email send interrupted", "error", err)
			return false
		}
		w.fail(ctx, logger, job, err)
		return false
	}

	// The provider accepted the email, so the record must outlive a shutdown.
	outcome := job.MarkSent(receipt.ProviderID, w.now())
	if err := w.outbox.Settle(context.WithoutCancel(ctx), job); err != nil {
		logger.ErrorContext(ctx, "Failed to record sent email", "error", err)
	}
	w.metrics.EmailDelivery(string(job.TemplateType), string(outcome))
	logger.InfoContext(ctx, "Email sent", "provider_id", receipt.ProviderID)
	return true
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, cause error) {
	outcome := job.MarkFailed(cause, domainerror.IsPermanentEmailFailure(cause), w.now())
	if err := w.outbox.Settle(ctx, job); err != nil {
		logger.ErrorContext(ctx, "Failed to record email failure", "error", err)
	}
	w.metrics.EmailDelivery(string(job.TemplateType), string(outcome))

	if outcome == entity.OutcomeDropped {
		logger.WarnContext(ctx, "Email permanently failed", "attempts", job.Attempts, "error", cause)
		return
	}
	logger.InfoContext(ctx, "Email scheduled for retry",
		"attempts", job.Attempts,
		"attempts_left", job.AttemptsLeft(),
		"scheduled_at", job.ScheduledAt,
		"error", cause,
	)
}
