// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nukgsz/schoolsite/internal/store"
)

// PurgeTokensJob is the name of the expired-token cleanup job.
const PurgeTokensJob = "purge_expired_tokens"

// jobTimeout bounds a single run of a job.
const jobTimeout = time.Minute

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
	run      func(ctx context.Context) error
	lastRun  time.Time
	lastErr  error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	LastRun  time.Time
	NextRun  time.Time
	LastErr  error
}

// Scheduler handles scheduled maintenance such as purging expired tokens.
type Scheduler struct {
	queries *store.Queries
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	jobs map[string]*job
}

// New creates a scheduler. The token purge job is registered on schedule;
// an empty schedule leaves it out.
func New(queries *store.Queries, schedule string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		queries: queries,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
		jobs:    make(map[string]*job),
	}
	if schedule != "" {
		if err := s.Register(PurgeTokensJob, schedule, s.purgeExpiredTokens); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a job running on a standard five-field cron schedule or a
// descriptor such as "@hourly".
func (s *Scheduler) Register(name, schedule string, run func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	j := &job{name: name, schedule: schedule, run: run}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs the named job immediately.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	return s.execute(j)
}

// Jobs lists the registered jobs ordered by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		infos = append(infos, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			LastRun:  j.lastRun,
			NextRun:  s.cron.Entry(j.entryID).Next,
			LastErr:  j.lastErr,
		})
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Name < infos[b].Name })
	return infos
}

func (s *Scheduler) execute(j *job) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := j.run(ctx)
	if err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err)
	}

	s.mu.Lock()
	j.lastRun = s.now()
	j.lastErr = err
	s.mu.Unlock()
	return err
}

// purgeExpiredTokens deletes auth tokens whose expiry has passed.
func (s *Scheduler) purgeExpiredTokens(ctx context.Context) error {
	n, err := s.queries.DeleteExpiredAuthTokens(ctx, s.now())
	if err != nil {
		return fmt.Errorf("purge expired tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged expired auth tokens", "count", n)
	}
	return nil
}
