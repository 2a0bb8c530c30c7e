package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/authsecure/backend/internal/domain/entity"
)

func TestJanitor_Sweep(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	refresh := NewRefreshTokenStore(db)
	resets := NewResetTokenStore(db)
	outbox := NewEmailOutbox(db)
	now := time.Now().UTC()

	require.NoError(t, refresh.Record(ctx, uuid.New(), "expired", uuid.New(), false, now.Add(-time.Minute)))
	require.NoError(t, refresh.Record(ctx, uuid.New(), "live", uuid.New(), false, now.Add(time.Hour)))
	require.NoError(t, resets.Grant(ctx, "expired-reset", uuid.New(), "ada@example.com", now.Add(-time.Minute)))

	sent := entity.NewEmailJob(entity.TemplateWelcome, "ada@example.com", "Ada", "Welcome", nil)
	sent.MarkSent("r1", now)
	longAgo := now.AddDate(0, 0, -10)
	sent.ProcessedAt = &longAgo
	require.NoError(t, outbox.Enqueue(ctx, sent))

	janitor := NewJanitor(refresh, resets, outbox, JanitorConfig{})
	res, err := janitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{RefreshTokens: 1, ResetTokens: 1, SentEmails: 1}, res)

	row, err := refresh.Lookup(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, row)

	res, err = NewJanitor(refresh, resets, nil, JanitorConfig{}).Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, res)
}

func TestJanitor_StartStopsOnCancel(t *testing.T) {
	db := newTestDB(t)
	// The sql.DB opener goroutine outlives the test until cleanup.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	janitor := NewJanitor(NewRefreshTokenStore(db), NewResetTokenStore(db), nil, JanitorConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
