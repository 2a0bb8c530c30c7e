package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/authsecure/backend/internal/application/adapter"
)

// JanitorConfig tunes the cleanup loop. Zero fields take the defaults.
type JanitorConfig struct {
	Interval time.Duration
	// SentRetention is how long delivered emails stay in the outbox.
	SentRetention time.Duration
}

func (c JanitorConfig) withDefaults() JanitorConfig {
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	if c.SentRetention <= 0 {
		c.SentRetention = 7 * 24 * time.Hour
	}
	return c
}

// SweepResult counts the rows one sweep removed.
type SweepResult struct {
	RefreshTokens int64
	ResetTokens   int64
	SentEmails    int64
}

// Janitor deletes expired tokens and old delivered emails.
type Janitor struct {
	refresh RefreshTokenStore
	resets  ResetTokenStore
	outbox  adapter.EmailOutbox
	cfg     JanitorConfig
	now     func() time.Time
}

// NewJanitor creates a Janitor. outbox may be nil when no emails are queued.
func NewJanitor(refresh RefreshTokenStore, resets ResetTokenStore, outbox adapter.EmailOutbox, cfg JanitorConfig) *Janitor {
	return &Janitor{
		refresh: refresh,
		resets:  resets,
		outbox:  outbox,
		cfg:     cfg.withDefaults(),
		now:     utcNow,
	}
}

// Start sweeps every Interval until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := j.Sweep(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Cleanup sweep failed", "error", err)
				continue
			}
			slog.DebugContext(ctx, "Cleanup sweep finished",
				"refresh_tokens", res.RefreshTokens,
				"reset_tokens", res.ResetTokens,
				"sent_emails", res.SentEmails,
			)
		}
	}
}

// Sweep runs one cleanup pass and stops at the first failing step.
func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := j.now()

	n, err := j.refresh.PurgeExpired(ctx, now)
	if err != nil {
		return res, err
	}
	res.RefreshTokens = n

	if n, err = j.resets.PurgeExpired(ctx, now); err != nil {
		return res, err
	}
	res.ResetTokens = n

	if j.outbox != nil {
		if n, err = j.outbox.PurgeSent(ctx, now.Add(-j.cfg.SentRetention)); err != nil {
			return res, err
		}
		res.SentEmails = n
	}
	return res, nil
}
