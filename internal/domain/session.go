package domain

import (
	"time"
)

// Session is the per-chat state. A fresh session starts logged out, with no
// notes, an empty input batch and an empty history.
type Session struct {
	ChatID   int64
	LoggedIn bool
	Username string
	Notes    string

	// Draft holds the raw sample inputs of the current batch. Inputs that fail
	// the inclusion gate stay here but never reach History.
	Draft []Sample

	// History is append-only apart from an explicit clear.
	History []Assessment

	LastSeen time.Time
}

func NewSession(chatID int64, now time.Time) *Session {
	return &Session{
		ChatID:   chatID,
		Draft:    []Sample{},
		History:  []Assessment{},
		LastSeen: now,
	}
}

// Clone returns a deep copy so callers can read a snapshot without holding locks.
func (s *Session) Clone() *Session {
	c := *s
	c.Draft = append([]Sample(nil), s.Draft...)
	c.History = append([]Assessment(nil), s.History...)
	if c.Draft == nil {
		c.Draft = []Sample{}
	}
	if c.History == nil {
		c.History = []Assessment{}
	}
	return &c
}

func (s *Session) IsIdle(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.LastSeen) > ttl
}
