package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/mocks"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
)

type feedFixture struct {
	store *mocks.DocumentStore
	cache *mocks.Cache
	state *state.Holder[models.UploadState]
	svc   FeedService
}

func newFeedFixture(t *testing.T, withCache bool) *feedFixture {
	t.Helper()
	f := &feedFixture{
		store: &mocks.DocumentStore{},
		state: state.NewHolder(models.Idle()),
	}
	var feedCache *mocks.Cache
	if withCache {
		f.cache = &mocks.Cache{}
		feedCache = f.cache
	}
	if feedCache != nil {
		f.svc = NewFeedService(f.store, feedCache, f.state, zap.NewNop(), time.Second, time.Minute)
	} else {
		f.svc = NewFeedService(f.store, nil, f.state, zap.NewNop(), time.Second, time.Minute)
	}
	return f
}

func postRecords() []db.Record {
	return []db.Record{
		{ID: "p1", Fields: map[string]any{"title": "Waakye", "keywords": []string{"waakye"}}},
		{ID: "p2", Fields: map[string]any{"title": "Jollof Rice", "keywords": []string{"jollof", "rice"}}},
		{ID: "p3", Fields: map[string]any{"title": "Fried Rice", "keywords": []string{"fried", "rice"}}},
	}
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFetchAll(t *testing.T) {
	t.Run("returns the store order reversed, newest first", func(t *testing.T) {
		f := newFeedFixture(t, false)
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(postRecords(), nil)

		posts, err := f.svc.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p2", "p1"}, postIDs(posts))
		assert.Equal(t, models.UploadSucceeded, f.state.Get().Phase)
		assert.Equal(t, posts, f.svc.Posts().Get())
	})

	t.Run("query failure publishes the failed state", func(t *testing.T) {
		f := newFeedFixture(t, false)
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(nil, errors.New("unavailable"))

		_, err := f.svc.FetchAll(context.Background())

		require.Error(t, err)
		assert.Equal(t, models.Failed(MsgPostsFetchFailed), f.state.Get())
	})

	t.Run("a cache hit skips the store query", func(t *testing.T) {
		f := newFeedFixture(t, true)
		cached, _ := json.Marshal([]models.Post{{ID: "p9", Title: "Banku"}})
		f.cache.On("Get", mock.Anything, "feed:all").Return(string(cached), nil)

		posts, err := f.svc.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"p9"}, postIDs(posts))
		f.store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a cache miss queries and repopulates the cache", func(t *testing.T) {
		f := newFeedFixture(t, true)
		f.cache.On("Get", mock.Anything, "feed:all").Return("", nil)
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(postRecords(), nil)
		f.cache.On("Set", mock.Anything, "feed:all", mock.Anything, time.Minute).Return(nil)

		posts, err := f.svc.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, posts, 3)
		f.cache.AssertExpectations(t)
	})

	t.Run("a cache failure degrades to a direct query", func(t *testing.T) {
		f := newFeedFixture(t, true)
		f.cache.On("Get", mock.Anything, "feed:all").Return("", errors.New("redis down"))
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(postRecords(), nil)
		f.cache.On("Set", mock.Anything, "feed:all", mock.Anything, time.Minute).Return(nil)

		posts, err := f.svc.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})
}

func TestFetchByCategory(t *testing.T) {
	f := newFeedFixture(t, false)
	f.store.On("Query", mock.Anything, "posts", &db.Filter{Field: "category", Value: "ASIAN"}).
		Return(postRecords()[:2], nil)

	posts, err := f.svc.FetchByCategory(context.Background(), models.CategoryAsian)

	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, postIDs(posts))
}

func TestFetchByUserID(t *testing.T) {
	f := newFeedFixture(t, false)
	f.store.On("Query", mock.Anything, "posts", &db.Filter{Field: "userId", Value: "uid-1"}).
		Return(postRecords()[:1], nil)

	posts, err := f.svc.FetchByUserID(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, postIDs(posts))
}

func TestFetchBySearch(t *testing.T) {
	t.Run("empty phrase is a validation error before any query", func(t *testing.T) {
		f := newFeedFixture(t, false)

		_, err := f.svc.FetchBySearch(context.Background(), "")

		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, models.Failed(MsgEmptySearchTerm), f.state.Get())
		f.store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("matches any shared token, case-insensitively", func(t *testing.T) {
		f := newFeedFixture(t, false)
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(postRecords(), nil)

		posts, err := f.svc.FetchBySearch(context.Background(), "RICE dishes")

		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p2"}, postIDs(posts))
	})

	t.Run("no shared tokens yields an empty result, not an error", func(t *testing.T) {
		f := newFeedFixture(t, false)
		f.store.On("Query", mock.Anything, "posts", (*db.Filter)(nil)).Return(postRecords(), nil)

		posts, err := f.svc.FetchBySearch(context.Background(), "fufu")

		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Equal(t, models.UploadSucceeded, f.state.Get().Phase)
	})
}
