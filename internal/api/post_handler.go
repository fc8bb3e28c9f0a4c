package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/db"
	"github.com/Carlvinchi/recipiverse/internal/middleware"
	"github.com/Carlvinchi/recipiverse/internal/models"
)

// PostHandler exposes the upload pipeline, feed queries and post deletion.
type PostHandler struct {
	uploadService core.UploadService
	feedService   core.FeedService
	postService   core.PostService
	logger        *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(us core.UploadService, fs core.FeedService, ps core.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{uploadService: us, feedService: fs, postService: ps, logger: logger}
}

// CreatePost handles POST /api/v1/posts. The body is multipart form data
// carrying the text fields plus "image" and "video" file parts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	image, err := formFileBlob(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgMissingPostFields, Details: "image: " + err.Error()})
		return
	}
	video, err := formFileBlob(c, "video")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgMissingPostFields, Details: "video: " + err.Error()})
		return
	}

	uid, ok := callerID(c)
	if !ok {
		return
	}

	input := models.CreatePostInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Category:     models.Category(c.PostForm("category")),
		Image:        image,
		Video:        video,
		UserID:       uid,
		UserName:     c.GetString(middleware.ContextDisplayName),
		LocationName: c.PostForm("locationName"),
	}
	if lat, lng := c.PostForm("latitude"), c.PostForm("longitude"); lat != "" && lng != "" {
		latF, latErr := strconv.ParseFloat(lat, 64)
		lngF, lngErr := strconv.ParseFloat(lng, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid latitude/longitude"})
			return
		}
		input.Location = models.LatLng{Latitude: latF, Longitude: lngF}
	}

	postID, err := h.uploadService.CreatePost(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgMissingPostFields})
			return
		}
		// The pipeline already published the step-specific failure state.
		st := h.uploadService.UploadState().Get()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: st.Message})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: core.MsgPostCreated, Data: gin.H{"postId": postID}})
}

// ListPosts handles GET /api/v1/posts. Exactly one of the category, search
// and userId query parameters selects the feed variant; none means the
// full feed. All variants return newest first.
func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		posts []models.Post
		err   error
	)
	switch {
	case c.Query("category") != "":
		category := models.Category(c.Query("category"))
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Unknown category %q", c.Query("category"))})
			return
		}
		posts, err = h.feedService.FetchByCategory(ctx, category)
	case c.Query("search") != "":
		posts, err = h.feedService.FetchBySearch(ctx, c.Query("search"))
	case c.Query("userId") != "":
		posts, err = h.feedService.FetchByUserID(ctx, c.Query("userId"))
	default:
		posts, err = h.feedService.FetchAll(ctx)
	}
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgEmptySearchTerm})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgPostsFetchFailed})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Posts: posts})
}

// DeletePost handles DELETE /api/v1/posts/:postId. The service resolves
// the media URLs from the stored document and rejects callers who do not
// own the post.
func (h *PostHandler) DeletePost(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), c.Param("postId"), uid); err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You can only delete your own posts"})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
		default:
			st := h.uploadService.UploadState().Get()
			msg := st.Message
			if msg == "" {
				msg = core.MsgSomethingWentWrong
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: core.MsgPostDeleted})
}

// formFileBlob reads one multipart file part into a Blob.
func formFileBlob(c *gin.Context, field string) (*models.Blob, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &models.Blob{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
