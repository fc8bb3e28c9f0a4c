package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/middleware"
	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
)

// stubUploadService captures the CreatePost input the handler builds.
type stubUploadService struct {
	uploadState *state.Holder[models.UploadState]
	input       models.CreatePostInput
	called      bool
	err         error
}

func newStubUploadService() *stubUploadService {
	return &stubUploadService{uploadState: state.NewHolder(models.Idle())}
}

func (s *stubUploadService) UploadState() *state.Holder[models.UploadState] { return s.uploadState }

func (s *stubUploadService) CreatePost(_ context.Context, input models.CreatePostInput) (string, error) {
	s.called = true
	s.input = input
	if s.err != nil {
		return "", s.err
	}
	return "post-1", nil
}

func (s *stubUploadService) UpdateProfileImage(context.Context, string, *models.Blob) (string, error) {
	return "", nil
}

// stubPostService captures the deletion arguments the handler resolves.
type stubPostService struct {
	postID      string
	requesterID string
	called      bool
	err         error
}

func (s *stubPostService) DeletePost(_ context.Context, postID, requesterID string) error {
	s.called = true
	s.postID = postID
	s.requesterID = requesterID
	return s.err
}

func (s *stubPostService) DeletePostsByUserID(context.Context, string) error { return nil }

// asVerifiedUser mimics the auth middleware: the handler under test must
// read these context keys, not re-derive identity anywhere else.
func asVerifiedUser(uid, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Set(middleware.ContextDisplayName, name)
		c.Next()
	}
}

func postForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("title", "Jollof Rice"))
	require.NoError(t, w.WriteField("description", "A classic"))
	require.NoError(t, w.WriteField("category", "AFRICAN"))
	img, err := w.CreateFormFile("image", "dish.jpg")
	require.NoError(t, err)
	_, _ = img.Write([]byte("img"))
	vid, err := w.CreateFormFile("video", "dish.mp4")
	require.NoError(t, err)
	_, _ = vid.Write([]byte("vid"))
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCreatePostHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("stamps the verified caller as author and display name", func(t *testing.T) {
		upload := newStubUploadService()
		h := NewPostHandler(upload, nil, &stubPostService{}, zap.NewNop())

		router := gin.New()
		router.POST("/posts", asVerifiedUser("uid-1", "Ama"), h.CreatePost)

		body, contentType := postForm(t)
		req := httptest.NewRequest(http.MethodPost, "/posts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, upload.called)
		assert.Equal(t, "uid-1", upload.input.UserID)
		assert.Equal(t, "Ama", upload.input.UserName)
	})

	t.Run("rejects requests with no verified identity", func(t *testing.T) {
		upload := newStubUploadService()
		h := NewPostHandler(upload, nil, &stubPostService{}, zap.NewNop())

		router := gin.New()
		router.POST("/posts", h.CreatePost)

		body, contentType := postForm(t)
		req := httptest.NewRequest(http.MethodPost, "/posts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, upload.called)
	})
}

func TestDeletePostHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(posts *stubPostService) *gin.Engine {
		h := NewPostHandler(newStubUploadService(), nil, posts, zap.NewNop())
		router := gin.New()
		router.DELETE("/posts/:postId", asVerifiedUser("uid-1", "Ama"), h.DeletePost)
		return router
	}

	deleteReq := func(router *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("passes the path post id and the verified caller", func(t *testing.T) {
		posts := &stubPostService{}
		rec := deleteReq(newRouter(posts))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "post-1", posts.postID)
		assert.Equal(t, "uid-1", posts.requesterID)
	})

	t.Run("a post owned by someone else is forbidden", func(t *testing.T) {
		posts := &stubPostService{err: core.ErrForbidden}
		rec := deleteReq(newRouter(posts))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("an unknown post is not found", func(t *testing.T) {
		posts := &stubPostService{err: db.ErrNotFound}
		rec := deleteReq(newRouter(posts))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
