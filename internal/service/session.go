package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/repository"
	"github.com/set-night/oilbot/internal/valuation"
)

// SessionService owns every mutation of per-chat state. Updates for the same
// chat are serialized because the bot dispatches updates concurrently.
type SessionService struct {
	store    repository.SessionStore
	calc     *valuation.Calculator
	username string
	password string
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	locks map[int64]*chatLock
}

// chatLock is dropped from the map once no update holds or waits for it.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionService(store repository.SessionStore, calc *valuation.Calculator, cfg *config.Config) *SessionService {
	return &SessionService{
		store:    store,
		calc:     calc,
		username: cfg.AuthUsername,
		password: cfg.AuthPassword,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		locks:    make(map[int64]*chatLock),
	}
}

// lockChat serializes updates for one chat and returns the unlock func.
func (s *SessionService) lockChat(chatID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &chatLock{}
		s.locks[chatID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, chatID)
		}
		s.mu.Unlock()
	}
}

// update loads the session, expires it if idle, applies fn and saves the result.
func (s *SessionService) update(ctx context.Context, chatID int64, fn func(*domain.Session) error) (*domain.Session, error) {
	return s.updateWith(ctx, chatID, fn, s.store.Save)
}

// updateWith is update with a custom persist step.
func (s *SessionService) updateWith(ctx context.Context, chatID int64, fn func(*domain.Session) error, persist func(context.Context, *domain.Session) error) (*domain.Session, error) {
	unlock := s.lockChat(chatID)
	defer unlock()

	sess, err := s.store.Load(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	now := s.now()
	if sess.IsIdle(now, s.ttl) {
		if err := s.store.Delete(ctx, chatID); err != nil {
			return nil, fmt.Errorf("expire session: %w", err)
		}
		sess = domain.NewSession(chatID, now)
	}

	if fn != nil {
		if err := fn(sess); err != nil {
			return nil, err
		}
	}

	sess.LastSeen = now
	if err := persist(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get returns the chat's session, creating it with defaults on first access.
func (s *SessionService) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	return s.update(ctx, chatID, nil)
}

func (s *SessionService) Login(ctx context.Context, chatID int64, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return domain.ErrInvalidCredentials
	}
	_, err := s.update(ctx, chatID, func(sess *domain.Session) error {
		sess.LoggedIn = true
		sess.Username = username
		return nil
	})
	return err
}

func (s *SessionService) Logout(ctx context.Context, chatID int64) error {
	_, err := s.update(ctx, chatID, func(sess *domain.Session) error {
		sess.LoggedIn = false
		sess.Username = ""
		return nil
	})
	return err
}

func (s *SessionService) SaveNote(ctx context.Context, chatID int64, note string) error {
	_, err := s.update(ctx, chatID, func(sess *domain.Session) error {
		sess.Notes = note
		return nil
	})
	return err
}

// AddSample appends a raw input to the current batch. Inputs that fail the
// inclusion gate are kept but never valued.
func (s *SessionService) AddSample(ctx context.Context, chatID int64, sample domain.Sample) (*domain.Session, error) {
	return s.update(ctx, chatID, func(sess *domain.Session) error {
		if !sess.LoggedIn {
			return domain.ErrNotLoggedIn
		}
		if len(sess.Draft) >= config.MaxBatchSamples {
			return domain.ErrBatchFull
		}
		sess.Draft = append(sess.Draft, sample)
		return nil
	})
}

func (s *SessionService) ResetBatch(ctx context.Context, chatID int64) error {
	_, err := s.update(ctx, chatID, func(sess *domain.Session) error {
		if !sess.LoggedIn {
			return domain.ErrNotLoggedIn
		}
		sess.Draft = []domain.Sample{}
		return nil
	})
	return err
}

// Evaluate values the accepted samples of the session's current batch.
func (s *SessionService) Evaluate(sess *domain.Session, quote valuation.Quote) []domain.Assessment {
	return s.calc.Evaluate(sess.Draft, quote)
}

// SaveBatch appends the accepted samples of the current batch to history, in
// input order, and starts a new batch. The new history rows and the emptied
// batch are stored together, so a failed save can be retried without
// duplicating history.
func (s *SessionService) SaveBatch(ctx context.Context, chatID int64, quote valuation.Quote) ([]domain.Assessment, error) {
	var saved []domain.Assessment
	persist := func(ctx context.Context, sess *domain.Session) error {
		return s.store.SaveWithHistory(ctx, sess, saved)
	}
	_, err := s.updateWith(ctx, chatID, func(sess *domain.Session) error {
		if !sess.LoggedIn {
			return domain.ErrNotLoggedIn
		}
		saved = s.calc.Evaluate(sess.Draft, quote)
		if len(saved) == 0 {
			return domain.ErrEmptyBatch
		}
		sess.History = append(sess.History, saved...)
		sess.Draft = []domain.Sample{}
		return nil
	}, persist)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SessionService) ClearHistory(ctx context.Context, chatID int64) error {
	_, err := s.update(ctx, chatID, func(sess *domain.Session) error {
		if !sess.LoggedIn {
			return domain.ErrNotLoggedIn
		}
		if err := s.store.ClearHistory(ctx, chatID); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		sess.History = []domain.Assessment{}
		return nil
	})
	return err
}

// SweepIdle drops sessions that have been idle longer than the configured TTL.
func (s *SessionService) SweepIdle(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.store.DeleteIdle(ctx, s.now().Add(-s.ttl))
}
