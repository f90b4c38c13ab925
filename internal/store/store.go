package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

var ErrSessionNotFound = errors.New("session not found")

// Session ties an uploaded dataset to a token. A session holds at most one
// dataset and at most one result; a new run replaces the previous result.
type Session struct {
	Token     uuid.UUID      `json:"token"`
	Filename  string         `json:"filename"`
	Table     *dataset.Table `json:"table"`
	Run       *Run           `json:"run,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Run is the outcome of one computation over a session's dataset.
type Run struct {
	Result     *topsis.Result `json:"result"`
	DurationMs float64        `json:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}

type Stats struct {
	ActiveSessions int `json:"active_sessions"`
	WithResults    int `json:"with_results"`
}

type Store interface {
	// CreateSession assigns a fresh token and expiry to s and stores it.
	CreateSession(ctx context.Context, s *Session) error
	// GetSession returns nil, nil when the token is unknown or expired.
	GetSession(ctx context.Context, token uuid.UUID) (*Session, error)
	// SaveRun replaces the session's result; ErrSessionNotFound if absent.
	SaveRun(ctx context.Context, token uuid.UUID, run *Run) error
	DeleteSession(ctx context.Context, token uuid.UUID) error
	// Sweep removes sessions expired at now and reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}
