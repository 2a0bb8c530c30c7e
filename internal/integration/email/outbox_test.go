package email

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// memoryOutbox is an in-process adapter.EmailOutbox.
type memoryOutbox struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]entity.EmailJob
}

func newMemoryOutbox() *memoryOutbox {
	return &memoryOutbox{jobs: make(map[uuid.UUID]entity.EmailJob)}
}

func (o *memoryOutbox) Enqueue(_ context.Context, job *entity.EmailJob) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jobs[job.ID] = *job
	return nil
}

func (o *memoryOutbox) Claim(_ context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*entity.EmailJob
	for id, job := range o.jobs {
		if len(out) == limit {
			break
		}
		if job.Due(now) {
			job.Claim(now)
			o.jobs[id] = job
			claimed := job
			out = append(out, &claimed)
		}
	}
	return out, nil
}

func (o *memoryOutbox) Settle(ctx context.Context, job *entity.EmailJob) error {
	return o.Enqueue(ctx, job)
}

func (o *memoryOutbox) ReleaseStale(_ context.Context, cutoff time.Time) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var n int64
	for id, job := range o.jobs {
		if job.Status == entity.EmailStatusProcessing && job.ClaimedAt != nil && job.ClaimedAt.Before(cutoff) {
			job.Status = entity.EmailStatusPending
			job.ClaimedAt = nil
			o.jobs[id] = job
			n++
		}
	}
	return n, nil
}

func (o *memoryOutbox) Find(_ context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok := o.jobs[id]
	if !ok {
		return nil, domainerror.ErrEmailJobNotFound
	}
	return &job, nil
}

func (o *memoryOutbox) ForRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*entity.EmailJob
	for _, job := range o.jobs {
		if job.RecipientEmail == email {
			job := job
			out = append(out, &job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o *memoryOutbox) PurgeSent(context.Context, time.Time) (int64, error) {
	return 0, nil
}
