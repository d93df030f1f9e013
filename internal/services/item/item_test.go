package item

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}
func (m *RepoMock) GetItem(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *RepoMock) ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *RepoMock) MarkExpired(ctx context.Context, id string, now time.Time) (int, error) {
	args := m.Called(ctx, id, now)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) MarkTaken(ctx context.Context, id, takenBy string, takenAt time.Time) (int, error) {
	args := m.Called(ctx, id, takenBy, takenAt)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ExtendItem(ctx context.Context, id string, expiresAt, now time.Time) (int, error) {
	args := m.Called(ctx, id, expiresAt, now)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) MarkHidden(ctx context.Context, id string, now time.Time) (int, error) {
	args := m.Called(ctx, id, now)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type SettingsMock struct{ mock.Mock }

func (m *SettingsMock) Get(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

type KarmaMock struct{ mock.Mock }

func (m *KarmaMock) Award(ctx context.Context, in models.Award) (int, error) {
	args := m.Called(ctx, in)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var t0 = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func defaultSettings() models.Settings {
	return models.DefaultSettings()
}

func activeItem(id, authorID string) *models.Item {
	return &models.Item{
		ID:        id,
		AuthorID:  authorID,
		Title:     "Диван",
		Category:  "furniture",
		Status:    models.StatusActive,
		CreatedAt: t0,
		UpdatedAt: t0,
		ExpiresAt: t0.Add(6 * time.Hour),
	}
}

func TestItemService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyItem
		settings   models.Settings
		setupMocks func(r *RepoMock, k *KarmaMock)
		wantErr    error
	}{
		{
			name:     "success create awards publish karma",
			req:      models.DummyItem{Title: "Диван", Category: "furniture"},
			settings: defaultSettings(),
			setupMocks: func(r *RepoMock, k *KarmaMock) {
				r.On("CreateItem", mock.Anything, mock.MatchedBy(func(it *models.Item) bool {
					return it.Title == "Диван" &&
						it.Status == models.StatusActive &&
						it.ExpiresAt.Equal(t0.Add(6*time.Hour))
				})).Return(nil).Once()
				k.On("Award", mock.Anything, models.Award{
					UserID: "user1", Amount: 10, Reason: models.ReasonPublish,
				}).Return(10, nil).Once()
			},
		},
		{
			name:       "empty title rejected",
			req:        models.DummyItem{Title: "   "},
			settings:   defaultSettings(),
			setupMocks: func(_ *RepoMock, _ *KarmaMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name: "photo required by settings",
			req:  models.DummyItem{Title: "Диван"},
			settings: func() models.Settings {
				st := defaultSettings()
				st.RequirePhoto = true
				return st
			}(),
			setupMocks: func(_ *RepoMock, _ *KarmaMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:     "award failure does not fail create",
			req:      models.DummyItem{Title: "Диван"},
			settings: defaultSettings(),
			setupMocks: func(r *RepoMock, k *KarmaMock) {
				r.On("CreateItem", mock.Anything, mock.Anything).Return(nil).Once()
				k.On("Award", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			karma := new(KarmaMock)
			settings := new(SettingsMock)
			if tt.wantErr == nil || tt.name == "photo required by settings" {
				settings.On("Get", mock.Anything).Return(tt.settings, nil)
			}
			svc := New(repo, settings, karma, clock.Fixed{Time: t0}, newNoopLogger())

			tt.setupMocks(repo, karma)

			got, err := svc.Create(context.Background(), "user1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.StatusActive, got.Status)
				assert.Equal(t, "user1", got.AuthorID)
				assert.NotEmpty(t, got.ID)
			}

			repo.AssertExpectations(t)
			karma.AssertExpectations(t)
		})
	}
}

func TestItemService_Get_LazyExpiry(t *testing.T) {
	t.Run("overdue active item becomes expired on read", func(t *testing.T) {
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(7 * time.Hour)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "user1"), nil).Once()
		repo.On("MarkExpired", mock.Anything, "item1", now).Return(1, nil).Once()
		repo.On("IncrementViews", mock.Anything, "item1").Return(nil).Once()

		got, err := svc.Get(context.Background(), "item1")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusExpired, got.Status)
		assert.Equal(t, 1, got.Views)

		repo.AssertExpectations(t)
	})

	t.Run("second read after expiry does not re-transition", func(t *testing.T) {
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(8 * time.Hour)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		expired := activeItem("item1", "user1")
		expired.Status = models.StatusExpired
		repo.On("GetItem", mock.Anything, "item1").Return(expired, nil).Once()
		repo.On("IncrementViews", mock.Anything, "item1").Return(nil).Once()

		got, err := svc.Get(context.Background(), "item1")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusExpired, got.Status)

		repo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "missing").Return(nil, apperr.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestItemService_MarkTaken(t *testing.T) {
	t.Run("success awards taken karma to author with pickup duration", func(t *testing.T) {
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(10 * time.Minute)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		repo.On("MarkTaken", mock.Anything, "item1", "user2", now).Return(1, nil).Once()
		settings.On("Get", mock.Anything).Return(defaultSettings(), nil).Once()
		karma.On("Award", mock.Anything, models.Award{
			UserID: "author1", Amount: 25, Reason: models.ReasonTaken, Pickup: 10 * time.Minute,
		}).Return(25, nil).Once()

		got, err := svc.MarkTaken(context.Background(), "item1", "user2")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusTaken, got.Status)
		assert.Equal(t, "user2", got.TakenBy)

		repo.AssertExpectations(t)
		settings.AssertExpectations(t)
		karma.AssertExpectations(t)
	})

	t.Run("overdue item expires instead of being taken", func(t *testing.T) {
		repo := new(RepoMock)
		now := t0.Add(7 * time.Hour)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		repo.On("MarkExpired", mock.Anything, "item1", now).Return(1, nil).Once()

		_, err := svc.MarkTaken(context.Background(), "item1", "user2")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)

		repo.AssertNotCalled(t, "MarkTaken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent transition loses the race", func(t *testing.T) {
		repo := new(RepoMock)
		now := t0.Add(time.Hour)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		repo.On("MarkTaken", mock.Anything, "item1", "user2", now).Return(0, nil).Once()

		_, err := svc.MarkTaken(context.Background(), "item1", "user2")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})

	t.Run("already taken", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0.Add(time.Hour)}, newNoopLogger())

		taken := activeItem("item1", "author1")
		taken.Status = models.StatusTaken
		repo.On("GetItem", mock.Anything, "item1").Return(taken, nil).Once()

		_, err := svc.MarkTaken(context.Background(), "item1", "user2")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})

	t.Run("slow pickup does not pass fast window", func(t *testing.T) {
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(2 * time.Hour)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		repo.On("MarkTaken", mock.Anything, "item1", "user2", now).Return(1, nil).Once()
		settings.On("Get", mock.Anything).Return(defaultSettings(), nil).Once()
		karma.On("Award", mock.Anything, mock.MatchedBy(func(a models.Award) bool {
			return a.Pickup == 2*time.Hour
		})).Return(25, nil).Once()

		_, err := svc.MarkTaken(context.Background(), "item1", "user2")
		assert.NoError(t, err)
		karma.AssertExpectations(t)
	})
}

func TestItemService_Extend(t *testing.T) {
	t.Run("active item extends from old deadline", func(t *testing.T) {
		// публикация в t0 с окном 6ч, продление в t0+1ч: новый срок t0+12ч
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(time.Hour)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		settings.On("Get", mock.Anything).Return(defaultSettings(), nil).Once()
		repo.On("ExtendItem", mock.Anything, "item1", t0.Add(12*time.Hour), now).Return(1, nil).Once()
		karma.On("Award", mock.Anything, models.Award{
			UserID: "author1", Amount: 2, Reason: models.ReasonExtend,
		}).Return(2, nil).Once()

		got, err := svc.Extend(context.Background(), "item1", "author1")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusActive, got.Status)
		assert.Equal(t, t0.Add(12*time.Hour), got.ExpiresAt)
	})

	t.Run("expired item extends from now and revives", func(t *testing.T) {
		// срок вышел в t0+6ч, продление в t0+7ч: новый срок t0+13ч
		repo := new(RepoMock)
		settings := new(SettingsMock)
		karma := new(KarmaMock)
		now := t0.Add(7 * time.Hour)
		svc := New(repo, settings, karma, clock.Fixed{Time: now}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()
		repo.On("MarkExpired", mock.Anything, "item1", now).Return(1, nil).Once()
		settings.On("Get", mock.Anything).Return(defaultSettings(), nil).Once()
		repo.On("ExtendItem", mock.Anything, "item1", t0.Add(13*time.Hour), now).Return(1, nil).Once()
		karma.On("Award", mock.Anything, mock.Anything).Return(2, nil).Once()

		got, err := svc.Extend(context.Background(), "item1", "author1")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusActive, got.Status)
		assert.Equal(t, t0.Add(13*time.Hour), got.ExpiresAt)
	})

	t.Run("only author can extend", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		repo.On("GetItem", mock.Anything, "item1").Return(activeItem("item1", "author1"), nil).Once()

		_, err := svc.Extend(context.Background(), "item1", "someone-else")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("hidden item cannot be extended", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		hidden := activeItem("item1", "author1")
		hidden.Status = models.StatusHidden
		repo.On("GetItem", mock.Anything, "item1").Return(hidden, nil).Once()

		_, err := svc.Extend(context.Background(), "item1", "author1")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})

	t.Run("taken item cannot be extended", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		taken := activeItem("item1", "author1")
		taken.Status = models.StatusTaken
		repo.On("GetItem", mock.Anything, "item1").Return(taken, nil).Once()

		_, err := svc.Extend(context.Background(), "item1", "author1")
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})
}

func TestItemService_List(t *testing.T) {
	t.Run("sweeps overdue items before listing", func(t *testing.T) {
		repo := new(RepoMock)
		now := t0.Add(time.Hour)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: now}, newNoopLogger())

		items := []*models.Item{activeItem("item1", "user1")}
		filter := models.ItemFilter{Status: "active"}
		repo.On("ExpireOverdue", mock.Anything, now).Return(2, nil).Once()
		repo.On("ListItems", mock.Anything, filter).Return(items, nil).Once()

		got, err := svc.List(context.Background(), filter)
		assert.NoError(t, err)
		assert.Equal(t, items, got)

		repo.AssertExpectations(t)
	})

	t.Run("sweep error fails the request", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		repo.On("ExpireOverdue", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()

		_, err := svc.List(context.Background(), models.ItemFilter{})
		assert.Error(t, err)
	})
}

func TestItemService_AutoHide(t *testing.T) {
	t.Run("hides active item", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		repo.On("MarkHidden", mock.Anything, "item1", t0).Return(1, nil).Once()

		assert.NoError(t, svc.AutoHide(context.Background(), "item1"))
	})

	t.Run("no-op when item is not active", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(SettingsMock), new(KarmaMock), clock.Fixed{Time: t0}, newNoopLogger())

		repo.On("MarkHidden", mock.Anything, "item1", t0).Return(0, nil).Once()

		assert.NoError(t, svc.AutoHide(context.Background(), "item1"))
	})
}
