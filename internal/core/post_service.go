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
	"github.com/Carlvinchi/recipiverse/internal/storage"
	"github.com/Carlvinchi/recipiverse/pkg/cache"
	"github.com/Carlvinchi/recipiverse/pkg/messagequeue"
)

// postService implements PostService: deletion flows composed from blob
// and document primitives.
type postService struct {
	store     db.DocumentStore
	objects   storage.ObjectStore
	queue     messagequeue.MessageQueue // optional
	feed      cache.Cache               // optional
	logger    *zap.Logger
	timeout   time.Duration
	queueName string

	uploadState *state.Holder[models.UploadState]
}

// NewPostService builds the post lifecycle controller.
func NewPostService(
	store db.DocumentStore,
	objects storage.ObjectStore,
	queue messagequeue.MessageQueue,
	feed cache.Cache,
	uploadState *state.Holder[models.UploadState],
	logger *zap.Logger,
	timeout time.Duration,
	queueName string,
) PostService {
	return &postService{
		store:       store,
		objects:     objects,
		queue:       queue,
		feed:        feed,
		logger:      logger,
		timeout:     timeout,
		queueName:   queueName,
		uploadState: uploadState,
	}
}

func (s *postService) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *postService) fail(message string, err error) error {
	s.uploadState.Set(models.Failed(message))
	return fmt.Errorf("%s: %w", message, err)
}

// DeletePost removes a post's media and document: video blob, image blob,
// then the document, strictly in that order. Any failure short-circuits
// the remaining steps, so the document is never deleted while its media
// might still exist unreferenced. The blob order itself carries no
// dependency; it is kept for parity with the source.
//
// The blob URLs are read from the stored document, and the document must
// belong to requesterID; callers cannot name arbitrary objects for
// deletion.
func (s *postService) DeletePost(ctx context.Context, postID, requesterID string) error {
	s.uploadState.Set(models.InProgress())

	getCtx, getCancel := s.callCtx(ctx)
	defer getCancel()
	record, err := s.store.Get(getCtx, postsCollection, postID)
	if err != nil {
		return s.fail(MsgPostsDeleteFailed, err)
	}
	post := models.PostFromFields(record.ID, record.Fields)
	if post.UserID != requesterID {
		s.uploadState.Set(models.Failed(MsgPostsDeleteFailed))
		return fmt.Errorf("post %s is not owned by %s: %w", postID, requesterID, ErrForbidden)
	}

	if post.VideoURL != "" {
		vidCtx, vidCancel := s.callCtx(ctx)
		defer vidCancel()
		if err := s.objects.Delete(vidCtx, post.VideoURL); err != nil {
			return s.fail(MsgVideoDeleteFailed, err)
		}
	}

	if post.ImageURL != "" {
		imgCtx, imgCancel := s.callCtx(ctx)
		defer imgCancel()
		if err := s.objects.Delete(imgCtx, post.ImageURL); err != nil {
			return s.fail(MsgImageDeleteFailed, err)
		}
	}

	docCtx, docCancel := s.callCtx(ctx)
	defer docCancel()
	if err := s.store.Delete(docCtx, postsCollection, postID); err != nil {
		return s.fail(MsgPostsDeleteFailed, err)
	}

	s.uploadState.Set(models.Succeeded(MsgPostDeleted))

	s.invalidateFeedCache(ctx)
	s.publishEvent(postEvent{Type: "post.deleted", PostID: postID, UserID: requesterID})
	return nil
}

// DeletePostsByUserID batch-deletes one author's post documents in a
// single atomic commit. This bulk path does not remove the associated
// media blobs — a documented asymmetry with DeletePost.
func (s *postService) DeletePostsByUserID(ctx context.Context, userID string) error {
	s.uploadState.Set(models.InProgress())

	qCtx, qCancel := s.callCtx(ctx)
	defer qCancel()
	records, err := s.store.Query(qCtx, postsCollection, &db.Filter{Field: "userId", Value: userID})
	if err != nil {
		return s.fail(MsgPostsDeleteFailed, err)
	}

	refs := make([]db.DocRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, db.DocRef{Collection: postsCollection, ID: r.ID})
	}

	delCtx, delCancel := s.callCtx(ctx)
	defer delCancel()
	if err := s.store.BatchDelete(delCtx, refs); err != nil {
		return s.fail(MsgPostsDeleteFailed, err)
	}

	s.uploadState.Set(models.Succeeded(""))

	s.invalidateFeedCache(ctx)
	s.publishEvent(postEvent{Type: "posts.purged", UserID: userID})
	return nil
}

func (s *postService) invalidateFeedCache(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Delete(ctx, feedCacheKey); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

func (s *postService) publishEvent(ev postEvent) {
	if s.queue == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("failed to encode post event", zap.Error(err))
		return
	}
	if err := s.queue.Publish(s.queueName, body); err != nil {
		s.logger.Warn("failed to publish post event",
			zap.String("type", ev.Type), zap.String("postId", ev.PostID), zap.Error(err))
	}
}
