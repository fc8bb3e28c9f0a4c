package core

import (
	"context"
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

type postFixture struct {
	store   *mocks.DocumentStore
	objects *mocks.ObjectStore
	queue   *mocks.MessageQueue
	state   *state.Holder[models.UploadState]
	svc     PostService

	calls []string
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	f := &postFixture{
		store:   &mocks.DocumentStore{},
		objects: &mocks.ObjectStore{},
		queue:   &mocks.MessageQueue{},
		state:   state.NewHolder(models.Idle()),
	}
	f.svc = NewPostService(f.store, f.objects, f.queue, nil, f.state, zap.NewNop(), time.Second, "post.events")
	return f
}

func (f *postFixture) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) { f.calls = append(f.calls, name) }
}

const (
	testImageURL = "https://storage.googleapis.com/recipiverse/images/a"
	testVideoURL = "https://storage.googleapis.com/recipiverse/videos/a"
)

// stubPost arranges the posts/post-1 document owned by uid-1 with both
// blob URLs attached.
func (f *postFixture) stubPost() {
	f.store.On("Get", mock.Anything, "posts", "post-1").Run(f.record("get-document")).
		Return(&db.Record{ID: "post-1", Fields: map[string]any{
			"userId": "uid-1",
			"image":  testImageURL,
			"video":  testVideoURL,
		}}, nil)
}

func TestDeletePost(t *testing.T) {
	t.Run("deletes the stored video, image, then document in order", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()
		f.objects.On("Delete", mock.Anything, testVideoURL).Run(f.record("delete-video")).Return(nil)
		f.objects.On("Delete", mock.Anything, testImageURL).Run(f.record("delete-image")).Return(nil)
		f.store.On("Delete", mock.Anything, "posts", "post-1").Run(f.record("delete-document")).Return(nil)
		f.queue.On("Publish", "post.events", mock.Anything).Return(nil)

		err := f.svc.DeletePost(context.Background(), "post-1", "uid-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"get-document", "delete-video", "delete-image", "delete-document"}, f.calls)
		assert.Equal(t, models.Succeeded(MsgPostDeleted), f.state.Get())
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()

		err := f.svc.DeletePost(context.Background(), "post-1", "uid-2")

		require.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, models.Failed(MsgPostsDeleteFailed), f.state.Get())
		// Nothing was removed on behalf of the wrong user.
		f.objects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a missing post surfaces not-found", func(t *testing.T) {
		f := newPostFixture(t)
		f.store.On("Get", mock.Anything, "posts", "post-9").Return(nil, db.ErrNotFound)

		err := f.svc.DeletePost(context.Background(), "post-9", "uid-1")

		require.ErrorIs(t, err, db.ErrNotFound)
		f.objects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("blob deletions target the stored urls, whatever the caller knows", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()
		f.objects.On("Delete", mock.Anything, testVideoURL).Return(nil)
		f.objects.On("Delete", mock.Anything, testImageURL).Return(nil)
		f.store.On("Delete", mock.Anything, "posts", "post-1").Return(nil)
		f.queue.On("Publish", "post.events", mock.Anything).Return(nil)

		require.NoError(t, f.svc.DeletePost(context.Background(), "post-1", "uid-1"))

		// Exactly the two document-recorded objects and no others.
		f.objects.AssertNumberOfCalls(t, "Delete", 2)
		f.objects.AssertExpectations(t)
	})

	t.Run("a post without blobs skips straight to the document", func(t *testing.T) {
		f := newPostFixture(t)
		f.store.On("Get", mock.Anything, "posts", "post-1").
			Return(&db.Record{ID: "post-1", Fields: map[string]any{"userId": "uid-1"}}, nil)
		f.store.On("Delete", mock.Anything, "posts", "post-1").Return(nil)
		f.queue.On("Publish", "post.events", mock.Anything).Return(nil)

		require.NoError(t, f.svc.DeletePost(context.Background(), "post-1", "uid-1"))
		f.objects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("video failure stops before the image and document", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()
		f.objects.On("Delete", mock.Anything, testVideoURL).Return(errors.New("bucket unavailable"))

		err := f.svc.DeletePost(context.Background(), "post-1", "uid-1")

		require.Error(t, err)
		assert.Equal(t, models.Failed(MsgVideoDeleteFailed), f.state.Get())
		f.objects.AssertNumberOfCalls(t, "Delete", 1)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("image failure stops before the document", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()
		f.objects.On("Delete", mock.Anything, testVideoURL).Return(nil)
		f.objects.On("Delete", mock.Anything, testImageURL).Return(errors.New("bucket unavailable"))

		err := f.svc.DeletePost(context.Background(), "post-1", "uid-1")

		require.Error(t, err)
		assert.Equal(t, models.Failed(MsgImageDeleteFailed), f.state.Get())
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("document failure surfaces after both blob deletions", func(t *testing.T) {
		f := newPostFixture(t)
		f.stubPost()
		f.objects.On("Delete", mock.Anything, mock.Anything).Return(nil)
		f.store.On("Delete", mock.Anything, "posts", "post-1").Return(errors.New("unavailable"))

		err := f.svc.DeletePost(context.Background(), "post-1", "uid-1")

		require.Error(t, err)
		assert.Equal(t, models.Failed(MsgPostsDeleteFailed), f.state.Get())
		f.objects.AssertNumberOfCalls(t, "Delete", 2)
	})
}

func TestDeletePostsByUserID(t *testing.T) {
	t.Run("batch-deletes exactly the author's documents", func(t *testing.T) {
		f := newPostFixture(t)
		f.store.On("Query", mock.Anything, "posts", &db.Filter{Field: "userId", Value: "uid-1"}).
			Return([]db.Record{{ID: "p1"}, {ID: "p2"}}, nil)
		f.store.On("BatchDelete", mock.Anything, []db.DocRef{
			{Collection: "posts", ID: "p1"},
			{Collection: "posts", ID: "p2"},
		}).Return(nil)
		f.queue.On("Publish", "post.events", mock.Anything).Return(nil)

		err := f.svc.DeletePostsByUserID(context.Background(), "uid-1")

		require.NoError(t, err)
		assert.Equal(t, models.UploadSucceeded, f.state.Get().Phase)
		// The bulk path never touches the media blobs.
		f.objects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.store.AssertExpectations(t)
	})

	t.Run("an author with no posts commits an empty batch", func(t *testing.T) {
		f := newPostFixture(t)
		f.store.On("Query", mock.Anything, "posts", &db.Filter{Field: "userId", Value: "uid-1"}).
			Return([]db.Record{}, nil)
		f.store.On("BatchDelete", mock.Anything, []db.DocRef{}).Return(nil)
		f.queue.On("Publish", "post.events", mock.Anything).Return(nil)

		require.NoError(t, f.svc.DeletePostsByUserID(context.Background(), "uid-1"))
	})

	t.Run("query failure aborts before the batch", func(t *testing.T) {
		f := newPostFixture(t)
		f.store.On("Query", mock.Anything, "posts", mock.Anything).Return(nil, errors.New("unavailable"))

		err := f.svc.DeletePostsByUserID(context.Background(), "uid-1")

		require.Error(t, err)
		assert.Equal(t, models.Failed(MsgPostsDeleteFailed), f.state.Get())
		f.store.AssertNotCalled(t, "BatchDelete", mock.Anything, mock.Anything)
	})
}
