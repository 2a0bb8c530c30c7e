package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/integration/persistence"
	"github.com/authsecure/backend/internal/integration/persistence/model"
)

var (
	_ persistence.RefreshTokenStore = (*memoryRefreshStore)(nil)
	_ persistence.ResetTokenStore   = (*memoryResetStore)(nil)
)

type memoryRefreshStore struct {
	mu   sync.Mutex
	rows map[string]*model.RefreshTokenModel
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{rows: make(map[string]*model.RefreshTokenModel)}
}

func (s *memoryRefreshStore) Record(_ context.Context, sessionID uuid.UUID, token string, userID uuid.UUID, rememberMe bool, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[token] = &model.RefreshTokenModel{ID: sessionID, UserID: userID, RememberMe: rememberMe, ExpiresAt: expiresAt}
	return nil
}

func (s *memoryRefreshStore) Live(_ context.Context, sessionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, row := range s.rows {
		if row.ID == sessionID && row.Active(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryRefreshStore) RevokeSession(_ context.Context, sessionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, row := range s.rows {
		if row.ID == sessionID && row.Active(now) {
			row.RevokedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryRefreshStore) Lookup(_ context.Context, token string) (*model.RefreshTokenModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[token], nil
}

func (s *memoryRefreshStore) Revoke(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	now := time.Now().UTC()
	if !ok || !row.Active(now) {
		return false, nil
	}
	row.RevokedAt = &now
	return true, nil
}

func (s *memoryRefreshStore) RevokeUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var n int64
	for _, row := range s.rows {
		if row.UserID == userID && row.RevokedAt == nil {
			row.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (s *memoryRefreshStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, row := range s.rows {
		if row.ExpiresAt.Before(cutoff) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}

type memoryResetStore struct {
	mu   sync.Mutex
	rows map[string]*model.PasswordResetTokenModel
}

func newMemoryResetStore() *memoryResetStore {
	return &memoryResetStore{rows: make(map[string]*model.PasswordResetTokenModel)}
}

func (s *memoryResetStore) Grant(_ context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, row := range s.rows {
		if row.UserID == userID && row.RedeemedAt == nil {
			delete(s.rows, t)
		}
	}
	s.rows[token] = &model.PasswordResetTokenModel{ID: uuid.New(), UserID: userID, Email: email, ExpiresAt: expiresAt}
	return nil
}

func (s *memoryResetStore) Find(_ context.Context, token string) (*model.PasswordResetTokenModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok || row.RedeemedAt != nil {
		return nil, nil
	}
	return row, nil
}

func (s *memoryResetStore) Redeem(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok || row.RedeemedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	row.RedeemedAt = &now
	return true, nil
}

func (s *memoryResetStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, row := range s.rows {
		if row.ExpiresAt.Before(cutoff) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}
