package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
	"github.com/Carlvinchi/recipiverse/internal/storage"
	"github.com/Carlvinchi/recipiverse/pkg/cache"
	"github.com/Carlvinchi/recipiverse/pkg/messagequeue"
)

// feedCacheKey is the cache entry holding the serialized full feed. The
// pipeline invalidates it whenever the post collection changes.
const feedCacheKey = "feed:all"

// postEvent is the message published after a post lifecycle change.
type postEvent struct {
	Type     string `json:"type"`
	PostID   string `json:"postId"`
	UserID   string `json:"userId"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

// uploadService implements UploadService: the multi-step pipelines that
// publish a post or a profile image.
type uploadService struct {
	store     db.DocumentStore
	objects   storage.ObjectStore
	queue     messagequeue.MessageQueue // optional
	feed      cache.Cache               // optional
	logger    *zap.Logger
	timeout   time.Duration
	queueName string

	uploadState *state.Holder[models.UploadState]
}

// NewUploadService builds the upload pipeline. uploadState is shared with
// the feed service: both publish to the one "waiting on network" channel.
func NewUploadService(
	store db.DocumentStore,
	objects storage.ObjectStore,
	queue messagequeue.MessageQueue,
	feed cache.Cache,
	uploadState *state.Holder[models.UploadState],
	logger *zap.Logger,
	timeout time.Duration,
	queueName string,
) UploadService {
	return &uploadService{
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

func (s *uploadService) UploadState() *state.Holder[models.UploadState] { return s.uploadState }

func (s *uploadService) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *uploadService) fail(message string, err error) error {
	s.uploadState.Set(models.Failed(message))
	if err == nil {
		return fmt.Errorf("%w: %s", ErrValidation, message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CreatePost publishes a post. The three remote steps run strictly in
// sequence — image upload, video upload, document write — and the
// pipeline stops at the first failure. Earlier steps are not rolled back:
// a video or document failure leaves the already-uploaded blobs orphaned
// in storage (a known, accepted gap).
func (s *uploadService) CreatePost(ctx context.Context, input models.CreatePostInput) (string, error) {
	if input.Title == "" || input.Description == "" || !input.Category.Valid() ||
		input.UserID == "" || input.Image.Empty() || input.Video.Empty() {
		return "", s.fail(MsgMissingPostFields, nil)
	}

	s.uploadState.Set(models.InProgress())

	// A fresh object path per call; a shared path value reassigned per
	// upload would collide under concurrent invocations.
	imgCtx, imgCancel := s.callCtx(ctx)
	defer imgCancel()
	imageURL, err := s.objects.Upload(imgCtx, "images/"+uuid.NewString(), input.Image)
	if err != nil {
		return "", s.fail(MsgImageUploadFailed, err)
	}

	vidCtx, vidCancel := s.callCtx(ctx)
	defer vidCancel()
	videoURL, err := s.objects.Upload(vidCtx, "videos/"+uuid.NewString(), input.Video)
	if err != nil {
		return "", s.fail(MsgVideoUploadFailed, err)
	}

	fields := map[string]any{
		"title":            input.Title,
		"description":      input.Description,
		"category":         string(input.Category),
		"image":            imageURL,
		"video":            videoURL,
		"userId":           input.UserID,
		"userDisplayName":  input.UserName,
		"userLocationName": input.LocationName,
		"userLocation":     input.Location,
		"dateCreated":      db.ServerTimestamp,
		"keywords":         models.TitleKeywords(input.Title),
	}

	docCtx, docCancel := s.callCtx(ctx)
	defer docCancel()
	postID, err := s.store.AddAutoID(docCtx, postsCollection, fields)
	if err != nil {
		return "", s.fail(MsgPostCreationFailed, err)
	}

	s.uploadState.Set(models.Succeeded(MsgPostCreated))

	s.invalidateFeedCache(ctx)
	s.publishEvent(postEvent{
		Type:     "post.created",
		PostID:   postID,
		UserID:   input.UserID,
		Title:    input.Title,
		Category: string(input.Category),
	})
	return postID, nil
}

// UpdateProfileImage uploads the blob, then patches uid's profile image
// URL. Same stop-on-first-failure policy as CreatePost.
func (s *uploadService) UpdateProfileImage(ctx context.Context, uid string, image *models.Blob) (string, error) {
	if uid == "" || image.Empty() {
		return "", s.fail(MsgImageUploadFailed, nil)
	}

	s.uploadState.Set(models.InProgress())

	upCtx, upCancel := s.callCtx(ctx)
	defer upCancel()
	imageURL, err := s.objects.Upload(upCtx, "images/"+uuid.NewString(), image)
	if err != nil {
		return "", s.fail(MsgImageUploadFailed, err)
	}

	docCtx, docCancel := s.callCtx(ctx)
	defer docCancel()
	if err := s.store.Update(docCtx, usersCollection, uid, map[string]any{
		"profileImageUrl": imageURL,
	}); err != nil {
		return "", s.fail(MsgProfileImageUpdateFailed, err)
	}

	s.uploadState.Set(models.Succeeded(MsgProfileImageUpdated))
	return imageURL, nil
}

// invalidateFeedCache drops the cached feed so the next FetchAll sees the
// change. Best effort.
func (s *uploadService) invalidateFeedCache(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Delete(ctx, feedCacheKey); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

// publishEvent emits a post lifecycle event. Best effort.
func (s *uploadService) publishEvent(ev postEvent) {
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
