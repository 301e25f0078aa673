// internal/syncer/syncer_test.go
package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fr4iser90/aboutME/internal/catalog"
	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
	"github.com/fr4iser90/aboutME/internal/provider"
)

// fakeSource is a canned provider.Source implementation. When started and
// release are set, the first fetch signals started and then blocks until
// release is closed; later fetches return immediately.
type fakeSource struct {
	source  model.SourceType
	records []model.RepoRecord
	err     error

	started   chan struct{}
	release   chan struct{}
	calls     atomic.Int32
	startOnce sync.Once
}

func (f *fakeSource) Type() model.SourceType { return f.source }

func (f *fakeSource) FetchRepositories(ctx context.Context, username string) ([]model.RepoRecord, error) {
	first := f.calls.Add(1) == 1
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if first && f.release != nil {
		<-f.release
	}
	return f.records, f.err
}

func githubRecords(n int) []model.RepoRecord {
	records := make([]model.RepoRecord, n)
	for i := range records {
		records[i] = model.RepoRecord{
			Name:           fmt.Sprintf("repo-%d", i+1),
			SourceType:     model.SourceGitHub,
			SourceUsername: "test-owner",
			SourceRepo:     fmt.Sprintf("repo-%d", i+1),
		}
	}
	return records
}

func TestParseTargets(t *testing.T) {
	t.Run("parses valid targets", func(t *testing.T) {
		targets, err := ParseTargets([]string{"github/alice", "gitlab/bob"})
		require.NoError(t, err)
		assert.Equal(t, []Target{
			{Source: model.SourceGitHub, Username: "alice"},
			{Source: model.SourceGitLab, Username: "bob"},
		}, targets)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		for _, raw := range []string{"github", "github/", "/alice", "bitbucket/alice", "github/a/b"} {
			_, err := ParseTargets([]string{raw})
			var ferr *custom_errors.ErrInvalidTargetFormat
			assert.ErrorAs(t, err, &ferr, "input %q", raw)
		}
	})
}

func TestSyncer_Run(t *testing.T) {
	ctx := context.Background()
	target := Target{Source: model.SourceGitHub, Username: "test-owner"}

	t.Run("one failing item does not abort the run", func(t *testing.T) {
		mockStore := new(MockStore)
		src := &fakeSource{source: model.SourceGitHub, records: githubRecords(5)}
		s := mustSyncer(t, mockStore, src)

		mockStore.On("FindByIdentity", ctx, mock.Anything).Return(model.Project{}, catalog.ErrNotFound).Times(5)
		mockStore.On("Create", ctx, mock.MatchedBy(func(p model.Project) bool {
			return p.Name == "repo-3"
		})).Return(model.Project{}, fmt.Errorf("insert failed")).Once()
		mockStore.On("Create", ctx, mock.Anything).Return(model.Project{ID: 1}, nil).Times(4)

		res, err := s.SyncNow(ctx, target)

		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, 4, res.Created)
		assert.Equal(t, 0, res.Updated)
		assert.Equal(t, 1, res.Failed)
		require.Len(t, res.ItemErrors, 1)
		assert.Equal(t, "repo-3", res.ItemErrors[0].Identity.Name)
		mockStore.AssertExpectations(t)
	})

	t.Run("unknown remote user is terminal with no catalog writes", func(t *testing.T) {
		mockStore := new(MockStore)
		src := &fakeSource{
			source: model.SourceGitHub,
			err:    &custom_errors.SourceNotFoundError{SourceType: model.SourceGitHub, Username: "doesnotexist"},
		}
		s := mustSyncer(t, mockStore, src)

		res, err := s.SyncNow(ctx, target)

		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.True(t, res.SourceMissing)
		assert.Contains(t, res.RunError, "doesnotexist")
		assert.Zero(t, res.Created)
		assert.Zero(t, res.Updated)
		mockStore.AssertNotCalled(t, "FindByIdentity")
		mockStore.AssertNotCalled(t, "Create")
		mockStore.AssertNotCalled(t, "UpdateSyncFields")
	})

	t.Run("a transient listing failure is terminal but not a missing source", func(t *testing.T) {
		mockStore := new(MockStore)
		src := &fakeSource{source: model.SourceGitHub, err: fmt.Errorf("connection timed out")}
		s := mustSyncer(t, mockStore, src)

		res, err := s.SyncNow(ctx, target)

		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.False(t, res.SourceMissing)
		mockStore.AssertNotCalled(t, "Create")
	})

	t.Run("records without a name are skipped", func(t *testing.T) {
		mockStore := new(MockStore)
		records := githubRecords(2)
		records[1].Name = ""
		src := &fakeSource{source: model.SourceGitHub, records: records}
		s := mustSyncer(t, mockStore, src)

		mockStore.On("FindByIdentity", ctx, mock.Anything).Return(model.Project{}, catalog.ErrNotFound).Once()
		mockStore.On("Create", ctx, mock.Anything).Return(model.Project{ID: 1}, nil).Once()

		res, err := s.SyncNow(ctx, target)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		assert.Equal(t, 1, res.Skipped)
		mockStore.AssertExpectations(t)
	})

	t.Run("rejects a target with no configured provider", func(t *testing.T) {
		s := mustSyncer(t, new(MockStore), &fakeSource{source: model.SourceGitHub})

		_, err := s.SyncNow(ctx, Target{Source: model.SourceGitLab, Username: "x"})

		assert.Error(t, err)
	})
}

func TestSyncer_NonOverlap(t *testing.T) {
	ctx := context.Background()
	target := Target{Source: model.SourceGitHub, Username: "test-owner"}

	mockStore := new(MockStore)
	src := &fakeSource{
		source:  model.SourceGitHub,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := src.started
	s := mustSyncer(t, mockStore, src)

	done := make(chan model.SyncResult, 1)
	go func() {
		res, _ := s.SyncNow(ctx, target)
		done <- res
	}()

	// Wait until the first run is inside the provider fetch.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}

	_, err := s.SyncNow(ctx, target)
	assert.ErrorIs(t, err, custom_errors.ErrSyncInFlight)

	// A different target is allowed to run concurrently.
	_, err = s.SyncNow(ctx, Target{Source: model.SourceGitHub, Username: "someone-else"})
	assert.NoError(t, err)

	close(src.release)
	select {
	case res := <-done:
		assert.True(t, res.OK())
	case <-time.After(2 * time.Second):
		t.Fatal("first run never finished")
	}

	// Once the first run completes, the target is free again.
	_, err = s.SyncNow(ctx, target)
	assert.NoError(t, err)
}

// mustSyncer builds a Syncer around a single fake source.
func mustSyncer(t *testing.T, store catalog.Store, src *fakeSource) *Syncer {
	t.Helper()
	s, err := NewSyncer(store, []provider.Source{src}, testLogger(), []string{"github/test-owner"}, time.Hour)
	require.NoError(t, err)
	return s
}
