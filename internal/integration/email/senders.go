package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// LogSender logs email instead of sending it. It stands in when no Resend API key is set.
type LogSender struct{}

var _ adapter.EmailSender = LogSender{}

func (LogSender) Send(ctx context.Context, email adapter.OutgoingEmail) (*adapter.Receipt, error) {
	slog.InfoContext(ctx, "Email not sent (no provider configured)",
		"to", email.To,
		"subject", email.Subject,
	)
	return &adapter.Receipt{ProviderID: "log-only"}, nil
}

// RecordingSender keeps sent email in memory and can be told to fail. Tests use it
// in place of Resend.
type RecordingSender struct {
	mu        sync.Mutex
	sent      []adapter.OutgoingEmail
	failWith  error
	permanent bool
}

var _ adapter.EmailSender = (*RecordingSender)(nil)

// NewRecordingSender creates an empty RecordingSender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (s *RecordingSender) Send(_ context.Context, email adapter.OutgoingEmail) (*adapter.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if s.permanent {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return nil, domainerror.NewEmailError(code, "recorded failure", s.failWith)
	}

	s.sent = append(s.sent, email)
	return &adapter.Receipt{ProviderID: fmt.Sprintf("rec-%d", len(s.sent))}, nil
}

// FailWith makes every later Send fail with err. A nil err restores success.
func (s *RecordingSender) FailWith(err error, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
	s.permanent = permanent
}

// Sent returns a copy of the email accepted so far.
func (s *RecordingSender) Sent() []adapter.OutgoingEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.OutgoingEmail(nil), s.sent...)
}
