package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS topsis_sessions (
	token      UUID PRIMARY KEY,
	filename   TEXT NOT NULL,
	dataset    JSONB NOT NULL,
	run        JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS topsis_sessions_expires_at_idx ON topsis_sessions (expires_at);`

// PostgresStore shares sessions between replicas. Expired rows are invisible
// to reads and removed by Sweep.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresStore(ctx context.Context, databaseURL string, ttl time.Duration) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	tableJSON, err := json.Marshal(sess.Table)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	now := time.Now().UTC()
	sess.Token = uuid.New()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO topsis_sessions (token, filename, dataset, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sess.Token, sess.Filename, tableJSON, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, token uuid.UUID) (*Session, error) {
	sess := &Session{}
	var tableJSON, runJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT token, filename, dataset, run, created_at, expires_at
		FROM topsis_sessions WHERE token = $1 AND expires_at > now()`, token,
	).Scan(&sess.Token, &sess.Filename, &tableJSON, &runJSON, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(tableJSON, &sess.Table); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if runJSON != nil {
		if err := json.Unmarshal(runJSON, &sess.Run); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
	}
	return sess, nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, token uuid.UUID, run *Run) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE topsis_sessions SET run = $2
		WHERE token = $1 AND expires_at > now()`, token, runJSON)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM topsis_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM topsis_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(run)
		FROM topsis_sessions WHERE expires_at > now()`,
	).Scan(&st.ActiveSessions, &st.WithResults)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return st, nil
}
