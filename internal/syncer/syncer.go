// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fr4iser90/aboutME/internal/catalog"
	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
	"github.com/fr4iser90/aboutME/internal/provider"
)

// Number of targets synced in parallel during a scheduled cycle. Targets
// have disjoint identity spaces, so this never races the per-item
// lookup-then-write.
const cycleConcurrency = 2

// Target names one (source, username) pair to sync.
type Target struct {
	Source   model.SourceType
	Username string
}

func (t Target) String() string {
	return string(t.Source) + "/" + t.Username
}

// ParseTargets parses config entries of the form 'source/username'.
func ParseTargets(raw []string) ([]Target, error) {
	var targets []Target
	for _, r := range raw {
		parts := strings.Split(r, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &custom_errors.ErrInvalidTargetFormat{Target: r}
		}
		source := model.SourceType(parts[0])
		if source != model.SourceGitHub && source != model.SourceGitLab {
			return nil, &custom_errors.ErrInvalidTargetFormat{Target: r}
		}
		targets = append(targets, Target{Source: source, Username: parts[1]})
	}
	return targets, nil
}

// Syncer drives end-to-end sync runs: provider fetch, per-item status
// inference and reconciliation, run-level result aggregation. It also owns
// the schedule (one immediate pass, then a fixed interval) and the in-flight
// set that keeps runs for the same target from overlapping.
type Syncer struct {
	store        catalog.Store
	sources      map[model.SourceType]provider.Source
	logger       *slog.Logger
	targets      []Target
	syncInterval time.Duration

	mu       sync.Mutex
	inFlight map[Target]struct{}
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(store catalog.Store, sources []provider.Source, logger *slog.Logger, targets []string, interval time.Duration) (*Syncer, error) {
	parsed, err := ParseTargets(targets)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.SourceType]provider.Source, len(sources))
	for _, src := range sources {
		byType[src.Type()] = src
	}

	return &Syncer{
		store:        store,
		sources:      byType,
		logger:       logger,
		targets:      parsed,
		syncInterval: interval,
		inFlight:     make(map[Target]struct{}),
	}, nil
}

// Start begins the continuous synchronization process: one immediate cycle,
// then one per interval until the context is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.syncInterval.String(), "targets", len(s.targets))
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	s.runCycle(ctx) // Initial sync on startup

	for {
		select {
		case <-ticker.C:
			s.runCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runCycle performs a synchronization pass for all configured targets.
func (s *Syncer) runCycle(ctx context.Context) {
	s.logger.Info("Starting new sync cycle")
	g := new(errgroup.Group)
	g.SetLimit(cycleConcurrency)

	for _, target := range s.targets {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := s.SyncNow(ctx, target)
			if err != nil {
				// A scheduled trigger that overlaps a still-running manual
				// sync is dropped; the next tick covers it.
				s.logger.Warn("Skipping target", "target", target.String(), "reason", err)
				return nil
			}
			s.logResult(res)
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Info("Sync cycle finished")
}

// SyncNow runs one sync for the target, unless a run for the same target is
// already in flight, in which case it returns ErrSyncInFlight. This is the
// entry point shared by the schedule and the administrative trigger.
func (s *Syncer) SyncNow(ctx context.Context, t Target) (model.SyncResult, error) {
	if _, ok := s.sources[t.Source]; !ok {
		return model.SyncResult{}, fmt.Errorf("no provider configured for source %q", t.Source)
	}
	if !s.acquire(t) {
		return model.SyncResult{}, custom_errors.ErrSyncInFlight
	}
	defer s.release(t)

	return s.run(ctx, t), nil
}

// run executes one fetch-infer-reconcile pass. It never returns an error:
// every failure state ends up inside the result.
func (s *Syncer) run(ctx context.Context, t Target) model.SyncResult {
	logger := s.logger.With("source", t.Source, "username", t.Username)
	logger.Info("Syncing repositories")

	res := model.SyncResult{
		SourceType: t.Source,
		Username:   t.Username,
		StartedAt:  time.Now().UTC(),
	}

	records, err := s.sources[t.Source].FetchRepositories(ctx, t.Username)
	if err != nil {
		// Terminal for this run; the next scheduled trigger retries.
		logger.Error("Repository listing failed", "error", err)
		res.RunError = err.Error()
		var nferr *custom_errors.SourceNotFoundError
		res.SourceMissing = errors.As(err, &nferr)
		res.FinishedAt = time.Now().UTC()
		return res
	}

	for _, rec := range records {
		if rec.Name == "" {
			res.Skipped++
			continue
		}
		op, err := s.reconcile(ctx, rec)
		switch op {
		case opCreated:
			res.Created++
		case opUpdated:
			res.Updated++
		case opFailed:
			res.Failed++
			res.ItemErrors = append(res.ItemErrors, model.ItemError{
				Identity: rec.Identity(),
				Message:  err.Error(),
			})
			logger.Error("Failed to reconcile repository", "repo", rec.Name, "error", err)
		}
	}

	res.FinishedAt = time.Now().UTC()
	return res
}

func (s *Syncer) acquire(t Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[t]; busy {
		return false
	}
	s.inFlight[t] = struct{}{}
	return true
}

func (s *Syncer) release(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, t)
}

func (s *Syncer) logResult(res model.SyncResult) {
	if !res.OK() {
		s.logger.Error("Sync run aborted", "source", res.SourceType, "username", res.Username, "error", res.RunError)
		return
	}
	s.logger.Info("Sync run finished",
		"source", res.SourceType,
		"username", res.Username,
		"created", res.Created,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration", res.FinishedAt.Sub(res.StartedAt).String(),
	)
}
