package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/persistence/model"
)

type emailOutbox struct {
	db *gorm.DB
}

// NewEmailOutbox creates an adapter.EmailOutbox over the email_queue table.
func NewEmailOutbox(db *gorm.DB) adapter.EmailOutbox {
	return &emailOutbox{db: db}
}

func (o *emailOutbox) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := o.db.WithContext(ctx).Create(model.EmailOutboxRow(job)).Error; err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to enqueue email", err)
	}
	return nil
}

// Claim selects due rows and flips each one with a status-guarded update, so a
// row another worker already took is skipped. On postgres the select also
// skips rows locked by a concurrent claim.
func (o *emailOutbox) Claim(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	now = now.UTC()
	var claimed []*entity.EmailJob

	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("status = ? AND scheduled_at <= ?", entity.EmailStatusPending, now).
			Order("scheduled_at ASC").
			Limit(limit)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		var due []model.EmailOutboxModel
		if err := query.Find(&due).Error; err != nil {
			return err
		}

		for i := range due {
			result := tx.Model(&model.EmailOutboxModel{}).
				Where("id = ? AND status = ?", due[i].ID, entity.EmailStatusPending).
				Updates(map[string]any{
					"status":     entity.EmailStatusProcessing,
					"claimed_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				continue
			}
			job := due[i].ToEntity()
			job.Claim(now)
			claimed = append(claimed, job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (o *emailOutbox) Settle(ctx context.Context, job *entity.EmailJob) error {
	return o.db.WithContext(ctx).Save(model.EmailOutboxRow(job)).Error
}

func (o *emailOutbox) ReleaseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := o.db.WithContext(ctx).
		Model(&model.EmailOutboxModel{}).
		Where("status = ? AND claimed_at < ?", entity.EmailStatusProcessing, cutoff.UTC()).
		Updates(map[string]any{
			"status":     entity.EmailStatusPending,
			"claimed_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (o *emailOutbox) Find(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	var row model.EmailOutboxModel
	err := o.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerror.ErrEmailJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (o *emailOutbox) ForRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error) {
	var rows []model.EmailOutboxModel
	if err := o.db.WithContext(ctx).
		Where("recipient_email = ?", email).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEmailJobs(rows), nil
}

func (o *emailOutbox) PurgeSent(ctx context.Context, cutoff time.Time) (int64, error) {
	result := o.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", entity.EmailStatusSent, cutoff.UTC()).
		Delete(&model.EmailOutboxModel{})
	return result.RowsAffected, result.Error
}

func toEmailJobs(rows []model.EmailOutboxModel) []*entity.EmailJob {
	jobs := make([]*entity.EmailJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].ToEntity())
	}
	return jobs
}
