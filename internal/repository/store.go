package repository

import (
	"context"
	"time"

	"github.com/set-night/oilbot/internal/domain"
)

// SessionStore persists per-chat sessions. Load returns a fresh default
// session when the chat has none yet.
type SessionStore interface {
	Load(ctx context.Context, chatID int64) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	// SaveWithHistory saves s and appends entries to its history in one atomic step.
	SaveWithHistory(ctx context.Context, s *domain.Session, entries []domain.Assessment) error
	ClearHistory(ctx context.Context, chatID int64) error
	Delete(ctx context.Context, chatID int64) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}
