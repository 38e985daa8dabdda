package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/testutil"
)

func TestNew(t *testing.T) {
	s, err := New(nil, "@hourly", testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].Name != PurgeTokensJob || jobs[0].Schedule != "@hourly" {
		t.Errorf("Jobs() = %+v", jobs)
	}
}

func TestNewWithoutSchedule(t *testing.T) {
	s, err := New(nil, "", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(s.Jobs()) != 0 {
		t.Errorf("Jobs() = %+v, want none", s.Jobs())
	}
}

func TestNewInvalidSchedule(t *testing.T) {
	if _, err := New(nil, "every now and then", nil); err == nil {
		t.Error("New() with invalid schedule should fail")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s, _ := New(nil, "", nil)
	noop := func(context.Context) error { return nil }

	if err := s.Register("job", "@daily", noop); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register("job", "@daily", noop); err == nil {
		t.Error("duplicate Register() should fail")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New(nil, "@hourly", testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()
	if next := s.Jobs()[0].NextRun; next.IsZero() {
		t.Error("NextRun should be set once started")
	}
	s.Stop()
}

func TestTrigger(t *testing.T) {
	s, _ := New(nil, "", testutil.TestLogger())
	boom := errors.New("boom")
	if err := s.Register("failing", "@daily", func(context.Context) error { return boom }); err != nil {
		t.Fatal(err)
	}

	if err := s.Trigger("failing"); !errors.Is(err, boom) {
		t.Errorf("Trigger() error = %v, want boom", err)
	}
	info := s.Jobs()[0]
	if info.LastRun.IsZero() || !errors.Is(info.LastErr, boom) {
		t.Errorf("job info = %+v", info)
	}

	if err := s.Trigger("missing"); err == nil {
		t.Error("Trigger() of unknown job should fail")
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "editor", "password123", model.RoleEditor)

	now := time.Now()
	for hash, expires := range map[string]time.Time{
		"expired": now.Add(-time.Hour),
		"valid":   now.Add(time.Hour),
	} {
		_, err := queries.CreateAuthToken(ctx, store.CreateAuthTokenParams{
			UserID:    user.ID,
			TokenHash: hash,
			ExpiresAt: expires,
			CreatedAt: now.Add(-2 * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateAuthToken: %v", err)
		}
	}

	s, err := New(queries, "@hourly", testutil.TestLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Trigger(PurgeTokensJob); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}

	if _, err := queries.GetValidAuthToken(ctx, "valid", now); err != nil {
		t.Errorf("valid token was purged: %v", err)
	}
	n, err := queries.DeleteAuthTokenByHash(ctx, "expired")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("expired token was not purged")
	}
}
