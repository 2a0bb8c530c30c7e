package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/domain/entity"
)

// EmailOutbox holds outgoing email until the delivery worker settles it.
type EmailOutbox interface {
	// Enqueue stores a new pending job.
	Enqueue(ctx context.Context, job *entity.EmailJob) error

	// Claim moves up to limit jobs that are due at now from pending to processing
	// and returns them. Concurrent callers never receive the same job.
	Claim(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Settle stores the outcome of a claimed job.
	Settle(ctx context.Context, job *entity.EmailJob) error

	// ReleaseStale returns jobs claimed before cutoff to pending. A worker that
	// died mid-send leaves such jobs behind.
	ReleaseStale(ctx context.Context, cutoff time.Time) (int64, error)

	// Find returns a job by ID or domainerror.ErrEmailJobNotFound.
	Find(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error)

	// ForRecipient lists jobs addressed to email, newest first.
	ForRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error)

	// PurgeSent deletes sent jobs processed before cutoff.
	PurgeSent(ctx context.Context, cutoff time.Time) (int64, error)
}
