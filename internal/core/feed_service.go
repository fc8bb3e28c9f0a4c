package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
	"github.com/Carlvinchi/recipiverse/pkg/cache"
)

// feedService implements FeedService: read-through queries over the post
// collection, republished as an observable list.
type feedService struct {
	store    db.DocumentStore
	feed     cache.Cache // optional
	logger   *zap.Logger
	timeout  time.Duration
	cacheTTL time.Duration

	uploadState *state.Holder[models.UploadState]
	posts       *state.Holder[[]models.Post]
}

// NewFeedService builds the feed controller. uploadState is the progress
// channel shared with the upload pipeline.
func NewFeedService(
	store db.DocumentStore,
	feed cache.Cache,
	uploadState *state.Holder[models.UploadState],
	logger *zap.Logger,
	timeout time.Duration,
	cacheTTL time.Duration,
) FeedService {
	return &feedService{
		store:       store,
		feed:        feed,
		logger:      logger,
		timeout:     timeout,
		cacheTTL:    cacheTTL,
		uploadState: uploadState,
		posts:       state.NewHolder[[]models.Post](nil),
	}
}

func (s *feedService) Posts() *state.Holder[[]models.Post] { return s.posts }

func (s *feedService) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// queryPosts runs one store query and decodes the result newest-first:
// the store returns documents in its native order, so the slice is
// reversed for display.
func (s *feedService) queryPosts(ctx context.Context, filter *db.Filter) ([]models.Post, error) {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	records, err := s.store.Query(cctx, postsCollection, filter)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		posts = append(posts, models.PostFromFields(records[i].ID, records[i].Fields))
	}
	return posts, nil
}

// publish replaces the observable list wholesale and reports success.
func (s *feedService) publish(posts []models.Post) []models.Post {
	s.posts.Set(posts)
	s.uploadState.Set(models.Succeeded(""))
	return posts
}

func (s *feedService) failFetch(err error) error {
	s.uploadState.Set(models.Failed(MsgPostsFetchFailed))
	return fmt.Errorf("%s: %w", MsgPostsFetchFailed, err)
}

func (s *feedService) FetchAll(ctx context.Context) ([]models.Post, error) {
	s.uploadState.Set(models.InProgress())

	if cached, ok := s.cachedFeed(ctx); ok {
		return s.publish(cached), nil
	}

	posts, err := s.queryPosts(ctx, nil)
	if err != nil {
		return nil, s.failFetch(err)
	}

	s.cacheFeed(ctx, posts)
	return s.publish(posts), nil
}

func (s *feedService) FetchByCategory(ctx context.Context, category models.Category) ([]models.Post, error) {
	s.uploadState.Set(models.InProgress())

	posts, err := s.queryPosts(ctx, &db.Filter{Field: "category", Value: string(category)})
	if err != nil {
		return nil, s.failFetch(err)
	}
	return s.publish(posts), nil
}

func (s *feedService) FetchByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	s.uploadState.Set(models.InProgress())

	posts, err := s.queryPosts(ctx, &db.Filter{Field: "userId", Value: userID})
	if err != nil {
		return nil, s.failFetch(err)
	}
	return s.publish(posts), nil
}

// FetchBySearch fetches the whole collection and keeps the posts whose
// stored keyword list shares any token with the phrase. A full scan per
// search, kept for parity with the source's index-less design.
func (s *feedService) FetchBySearch(ctx context.Context, phrase string) ([]models.Post, error) {
	if phrase == "" {
		s.uploadState.Set(models.Failed(MsgEmptySearchTerm))
		return nil, fmt.Errorf("%w: %s", ErrValidation, MsgEmptySearchTerm)
	}

	s.uploadState.Set(models.InProgress())

	tokens := make(map[string]struct{})
	for _, t := range models.TitleKeywords(phrase) {
		tokens[t] = struct{}{}
	}

	posts, err := s.queryPosts(ctx, nil)
	if err != nil {
		return nil, s.failFetch(err)
	}

	matched := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		for _, kw := range p.Keywords {
			if _, ok := tokens[kw]; ok {
				matched = append(matched, p)
				break
			}
		}
	}
	return s.publish(matched), nil
}

// cachedFeed returns the cached full feed, if the cache is enabled and
// holds one. Cache failures degrade to a direct query.
func (s *feedService) cachedFeed(ctx context.Context) ([]models.Post, bool) {
	if s.feed == nil {
		return nil, false
	}
	raw, err := s.feed.Get(ctx, feedCacheKey)
	if err != nil {
		s.logger.Warn("feed cache read failed", zap.Error(err))
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		s.logger.Warn("feed cache entry is malformed", zap.Error(err))
		return nil, false
	}
	return posts, true
}

func (s *feedService) cacheFeed(ctx context.Context, posts []models.Post) {
	if s.feed == nil {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		s.logger.Warn("failed to encode feed for caching", zap.Error(err))
		return
	}
	if err := s.feed.Set(ctx, feedCacheKey, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("feed cache write failed", zap.Error(err))
	}
}
