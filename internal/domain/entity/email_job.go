package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the lifecycle state of an outbox row.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType names the template an outbox row renders with.
type EmailTemplateType string

const (
	TemplatePasswordReset EmailTemplateType = "password_reset"
	TemplateWelcome       EmailTemplateType = "welcome"
)

// DeliveryOutcome is what one delivery attempt did to a job.
type DeliveryOutcome string

const (
	OutcomeSent    DeliveryOutcome = "sent"
	OutcomeRetry   DeliveryOutcome = "retry"
	OutcomeDropped DeliveryOutcome = "failed"
)

// DefaultEmailAttempts bounds the deliveries tried per job.
const DefaultEmailAttempts = 3

// retryBackoff is indexed by the number of attempts already made.
var retryBackoff = [...]time.Duration{0, time.Minute, 5 * time.Minute}

// EmailJob is one transactional email in the outbox.
type EmailJob struct {
	ID                uuid.UUID
	TemplateType      EmailTemplateType
	RecipientEmail    string
	RecipientName     string
	Subject           string
	TemplateData      map[string]string
	Status            EmailStatus
	Attempts          int
	MaxAttempts       int
	LastError         string
	ProviderMessageID string
	CreatedAt         time.Time
	ScheduledAt       time.Time
	ClaimedAt         *time.Time
	ProcessedAt       *time.Time
}

// NewEmailJob returns a pending job that is due immediately.
func NewEmailJob(kind EmailTemplateType, to, name, subject string, data map[string]string) *EmailJob {
	created := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   kind,
		RecipientEmail: to,
		RecipientName:  name,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailAttempts,
		CreatedAt:      created,
		ScheduledAt:    created,
	}
}

// Due reports whether a worker may claim the job at now.
func (e *EmailJob) Due(now time.Time) bool {
	return e.Status == EmailStatusPending && !e.ScheduledAt.After(now)
}

// AttemptsLeft is how many deliveries remain before the job is dropped.
func (e *EmailJob) AttemptsLeft() int {
	return max(e.MaxAttempts-e.Attempts, 0)
}

// Claim hands the job to a delivery worker at now.
func (e *EmailJob) Claim(now time.Time) {
	e.Status = EmailStatusProcessing
	e.ClaimedAt = &now
}

// MarkSent settles the job as delivered under the provider's message id.
func (e *EmailJob) MarkSent(providerMessageID string, now time.Time) DeliveryOutcome {
	e.Status = EmailStatusSent
	e.ProviderMessageID = providerMessageID
	e.ProcessedAt = &now
	return OutcomeSent
}

// MarkFailed records a failed attempt. The job goes back to pending with a
// backoff unless the failure is permanent or no attempts are left.
func (e *EmailJob) MarkFailed(cause error, permanent bool, now time.Time) DeliveryOutcome {
	e.Attempts++
	e.LastError = cause.Error()
	e.ClaimedAt = nil

	if permanent || e.AttemptsLeft() == 0 {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return OutcomeDropped
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = NextRetryAt(e.Attempts, now)
	return OutcomeRetry
}

// NextRetryAt is when a job with the given failed attempts becomes due again.
// Attempts past the table reuse the longest delay.
func NextRetryAt(attempts int, now time.Time) time.Time {
	i := min(attempts, len(retryBackoff)-1)
	return now.Add(retryBackoff[i])
}
