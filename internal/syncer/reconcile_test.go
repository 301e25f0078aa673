// internal/syncer/reconcile_test.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fr4iser90/aboutME/internal/catalog"
	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
)

// MockStore is a mock of the catalog.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindByIdentity(ctx context.Context, key model.IdentityKey) (model.Project, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.Project), args.Error(1)
}
func (m *MockStore) Create(ctx context.Context, p model.Project) (model.Project, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Project), args.Error(1)
}
func (m *MockStore) UpdateSyncFields(ctx context.Context, id int64, f model.SyncFields) (model.Project, error) {
	args := m.Called(ctx, id, f)
	return args.Get(0).(model.Project), args.Error(1)
}
func (m *MockStore) ListBySource(ctx context.Context, source model.SourceType, username string) ([]model.Project, error) {
	args := m.Called(ctx, source, username)
	return args.Get(0).([]model.Project), args.Error(1)
}
func (m *MockStore) ListVisible(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Project), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord() model.RepoRecord {
	return model.RepoRecord{
		Name:           "test-repo",
		SourceType:     model.SourceGitHub,
		SourceUsername: "test-owner",
		SourceRepo:     "test-repo",
		SourceURL:      "https://github.com/test-owner/test-repo",
		Description:    "a test repo",
		StarsCount:     20,
		ForksCount:     10,
		Topics:         []string{"go"},
		HasReleases:    true,
	}
}

func TestSyncer_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new project if none exists for the identity key", func(t *testing.T) {
		mockStore := new(MockStore)
		s := &Syncer{store: mockStore, logger: testLogger()}
		rec := testRecord()

		mockStore.On("FindByIdentity", ctx, rec.Identity()).Return(model.Project{}, catalog.ErrNotFound).Once()
		mockStore.On("Create", ctx, mock.MatchedBy(func(p model.Project) bool {
			return p.Name == "test-repo" &&
				p.Status == model.StatusActive &&
				p.DisplayOrder == 0 &&
				p.IsVisible &&
				p.Highlights == "" &&
				len(p.CustomTags) == 0
		})).Return(model.Project{ID: 1}, nil).Once()

		op, err := s.reconcile(ctx, rec)

		assert.NoError(t, err)
		assert.Equal(t, opCreated, op)
		mockStore.AssertExpectations(t)
	})

	t.Run("updates only sync-owned fields of an existing project", func(t *testing.T) {
		mockStore := new(MockStore)
		s := &Syncer{store: mockStore, logger: testLogger()}
		rec := testRecord()

		existing := model.Project{ID: 7, Name: "test-repo", Status: model.StatusWIP, CustomTags: []string{"x"}}
		mockStore.On("FindByIdentity", ctx, rec.Identity()).Return(existing, nil).Once()
		mockStore.On("UpdateSyncFields", ctx, int64(7), mock.MatchedBy(func(f model.SyncFields) bool {
			return f.Status == model.StatusActive && f.StarsCount == 20
		})).Return(existing, nil).Once()

		op, err := s.reconcile(ctx, rec)

		assert.NoError(t, err)
		assert.Equal(t, opUpdated, op)
		mockStore.AssertExpectations(t)
		mockStore.AssertNotCalled(t, "Create")
	})

	t.Run("preserves an operator-set DEPRECATED status", func(t *testing.T) {
		mockStore := new(MockStore)
		s := &Syncer{store: mockStore, logger: testLogger()}
		rec := testRecord() // would infer ACTIVE

		existing := model.Project{ID: 7, Name: "test-repo", Status: model.StatusDeprecated}
		mockStore.On("FindByIdentity", ctx, rec.Identity()).Return(existing, nil).Once()
		mockStore.On("UpdateSyncFields", ctx, int64(7), mock.MatchedBy(func(f model.SyncFields) bool {
			return f.Status == model.StatusDeprecated
		})).Return(existing, nil).Once()

		op, err := s.reconcile(ctx, rec)

		assert.NoError(t, err)
		assert.Equal(t, opUpdated, op)
		mockStore.AssertExpectations(t)
	})

	t.Run("wraps a catalog failure in a ReconcileError", func(t *testing.T) {
		mockStore := new(MockStore)
		s := &Syncer{store: mockStore, logger: testLogger()}
		rec := testRecord()
		dbErr := errors.New("connection lost")

		mockStore.On("FindByIdentity", ctx, rec.Identity()).Return(model.Project{}, catalog.ErrNotFound).Once()
		mockStore.On("Create", ctx, mock.Anything).Return(model.Project{}, dbErr).Once()

		op, err := s.reconcile(ctx, rec)

		assert.Equal(t, opFailed, op)
		var rerr *custom_errors.ReconcileError
		assert.ErrorAs(t, err, &rerr)
		assert.Equal(t, rec.Identity(), rerr.Identity)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("returns failed when the identity lookup errors", func(t *testing.T) {
		mockStore := new(MockStore)
		s := &Syncer{store: mockStore, logger: testLogger()}
		rec := testRecord()

		mockStore.On("FindByIdentity", ctx, rec.Identity()).Return(model.Project{}, errors.New("boom")).Once()

		op, err := s.reconcile(ctx, rec)

		assert.Equal(t, opFailed, op)
		assert.Error(t, err)
		mockStore.AssertNotCalled(t, "Create")
		mockStore.AssertNotCalled(t, "UpdateSyncFields")
	})
}
