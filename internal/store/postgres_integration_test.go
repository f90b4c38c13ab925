//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T, ttl time.Duration) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL, ttl)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE topsis_sessions")
		s.Close()
	})

	return s
}

func TestPostgresSessionRoundTrip(t *testing.T) {
	s := setupTestDB(t, time.Hour)
	ctx := context.Background()
	tbl := testTable(t)

	sess := &Session{Filename: "phones.csv", Table: tbl}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.Token == uuid.Nil {
		t.Fatal("expected token after create")
	}

	got, err := s.GetSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.Filename != "phones.csv" {
		t.Errorf("expected filename phones.csv, got %s", got.Filename)
	}
	if got.Table.NumAlternatives() != 2 {
		t.Errorf("expected 2 alternatives, got %d", got.Table.NumAlternatives())
	}
	if got.Run != nil {
		t.Error("expected no run before SaveRun")
	}

	if err := s.SaveRun(ctx, sess.Token, testRun(t, tbl)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	got, err = s.GetSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Run == nil || len(got.Run.Result.Rows) != 2 {
		t.Fatalf("expected stored run with 2 rows, got %+v", got.Run)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ActiveSessions != 1 || stats.WithResults != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := s.DeleteSession(ctx, sess.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if err := s.DeleteSession(ctx, sess.Token); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPostgresSweep(t *testing.T) {
	s := setupTestDB(t, time.Millisecond)
	ctx := context.Background()

	if err := s.CreateSession(ctx, &Session{Filename: "a.csv", Table: testTable(t)}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	n, err := s.Sweep(ctx, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 swept session, got %d", n)
	}
}
