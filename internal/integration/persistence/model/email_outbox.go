package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/domain/entity"
)

// EmailOutboxModel is a row of the email outbox. Workers claim rows by
// status and scheduled_at, so both share one index.
type EmailOutboxModel struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TemplateType      string            `gorm:"type:varchar(50);not null"`
	RecipientEmail    string            `gorm:"type:varchar(255);not null;index"`
	RecipientName     string            `gorm:"type:varchar(255)"`
	Subject           string            `gorm:"type:varchar(500);not null"`
	TemplateData      map[string]string `gorm:"type:text;serializer:json"`
	Status            string            `gorm:"type:varchar(20);not null;default:'pending';index:idx_email_outbox_due,priority:1"`
	ScheduledAt       time.Time         `gorm:"not null;index:idx_email_outbox_due,priority:2"`
	Attempts          int               `gorm:"not null;default:0"`
	MaxAttempts       int               `gorm:"not null"`
	LastError         string            `gorm:"type:text"`
	ProviderMessageID string            `gorm:"type:varchar(100)"`
	ClaimedAt         *time.Time
	ProcessedAt       *time.Time
	CreatedAt         time.Time `gorm:"not null"`
}

func (EmailOutboxModel) TableName() string {
	return "email_queue"
}

// ToEntity converts the row into an EmailJob.
func (m *EmailOutboxModel) ToEntity() *entity.EmailJob {
	data := m.TemplateData
	if data == nil {
		data = map[string]string{}
	}
	return &entity.EmailJob{
		ID:                m.ID,
		TemplateType:      entity.EmailTemplateType(m.TemplateType),
		RecipientEmail:    m.RecipientEmail,
		RecipientName:     m.RecipientName,
		Subject:           m.Subject,
		TemplateData:      data,
		Status:            entity.EmailStatus(m.Status),
		ScheduledAt:       m.ScheduledAt,
		Attempts:          m.Attempts,
		MaxAttempts:       m.MaxAttempts,
		LastError:         m.LastError,
		ProviderMessageID: m.ProviderMessageID,
		ClaimedAt:         m.ClaimedAt,
		ProcessedAt:       m.ProcessedAt,
		CreatedAt:         m.CreatedAt,
	}
}

// EmailOutboxRow maps an EmailJob onto its row.
func EmailOutboxRow(job *entity.EmailJob) *EmailOutboxModel {
	return &EmailOutboxModel{
		ID:                job.ID,
		TemplateType:      string(job.TemplateType),
		RecipientEmail:    job.RecipientEmail,
		RecipientName:     job.RecipientName,
		Subject:           job.Subject,
		TemplateData:      job.TemplateData,
		Status:            string(job.Status),
		ScheduledAt:       job.ScheduledAt,
		Attempts:          job.Attempts,
		MaxAttempts:       job.MaxAttempts,
		LastError:         job.LastError,
		ProviderMessageID: job.ProviderMessageID,
		ClaimedAt:         job.ClaimedAt,
		ProcessedAt:       job.ProcessedAt,
		CreatedAt:         job.CreatedAt,
	}
}
