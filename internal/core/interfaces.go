// Package core contains the controllers that drive the application:
// authentication state, the post upload pipeline, feed queries, and post
// lifecycle. Controllers publish their progress through observable state
// holders and normalize every remote failure into a UI-facing message —
// they never panic past their public boundary.
package core

import (
	"context"
	"errors"

	"github.com/Carlvinchi/recipiverse/internal/models"
	"github.com/Carlvinchi/recipiverse/internal/state"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// ErrValidation marks failures detected locally, before any remote call.
// No partial side effects exist when it is returned.
var ErrValidation = errors.New("validation failed")

// ErrForbidden marks operations on a resource the caller does not own.
var ErrForbidden = errors.New("forbidden")

// UI-facing messages. The mobile client displayed these verbatim, so they
// are part of the observable behavior.
const (
	MsgEmptyCredentials         = "Email or Password can't be empty"
	MsgEmptyProfileFields       = "Name or Email can't be empty"
	MsgSomethingWentWrong       = "Something went wrong"
	MsgCouldNotDeleteUser       = "Could not delete user"
	MsgMissingPostFields        = "All post fields are required"
	MsgImageUploadFailed        = "Image Upload Failed"
	MsgVideoUploadFailed        = "Video Upload Failed"
	MsgPostCreationFailed       = "Post creation failed"
	MsgPostCreated              = "Post created successfully"
	MsgProfileImageUpdateFailed = "User profile image update failed"
	MsgProfileImageUpdated      = "Profile image updated successfully"
	MsgEmptySearchTerm          = "Please enter a search term"
	MsgPostsFetchFailed         = "Posts fetched failed"
	MsgVideoDeleteFailed        = "video delete failed"
	MsgImageDeleteFailed        = "image delete failed"
	MsgPostsDeleteFailed        = "posts delete failed"
	MsgPostDeleted              = "Post deleted successfully"
)

// AuthService is the session/auth state machine.
type AuthService interface {
	// AuthState exposes the observable auth machine position.
	AuthState() *state.Holder[models.AuthState]
	// Profile exposes the observable current-user profile. nil until a
	// fetch has completed.
	Profile() *state.Holder[*models.UserProfile]
	// CurrentUserID returns the signed-in user's ID, or "".
	CurrentUserID() string

	// Login signs in with email/password and returns the terminal state.
	Login(ctx context.Context, email, password string) models.AuthState
	// Signup creates an account plus its profile document.
	Signup(ctx context.Context, name, email, password string) models.AuthState
	// SignInWithGoogle exchanges a federated ID token. Profile creation is
	// idempotent across repeated sign-ins.
	SignInWithGoogle(ctx context.Context, idToken string) models.AuthState
	// SignOut clears the session; always ends Unauthenticated locally.
	SignOut(ctx context.Context) models.AuthState

	// FetchProfile reads uid's profile, degrading to the sentinel profile
	// on any failure. uid is the verified identity of the caller, never
	// the provider session: concurrent requests must not see each other.
	FetchProfile(ctx context.Context, uid string) *models.UserProfile
	// UpdateProfile patches uid's name/email and republishes the profile.
	UpdateProfile(ctx context.Context, uid, name, email string) error
	// DeleteAccount removes uid's profile document only; the caller
	// sequences post deletion and sign-out around it.
	DeleteAccount(ctx context.Context, uid string) error
}

// UploadService coordinates the ordered, independently fallible steps of
// publishing media-backed writes.
type UploadService interface {
	// UploadState exposes the shared pipeline/query progress channel.
	UploadState() *state.Holder[models.UploadState]

	// CreatePost runs image upload, video upload, then the document write,
	// strictly in that order, stopping at the first failure. The post is
	// stamped with input.UserID, the caller's verified identity. Returns
	// the new post ID on success.
	CreatePost(ctx context.Context, input models.CreatePostInput) (string, error)
	// UpdateProfileImage uploads the blob and patches uid's profile image
	// URL, stopping on the first failure.
	UpdateProfileImage(ctx context.Context, uid string, image *models.Blob) (string, error)
}

// FeedService issues feed queries and republishes results as an ordered,
// observable list. Every fetch replaces the whole list.
type FeedService interface {
	// Posts exposes the observable post list.
	Posts() *state.Holder[[]models.Post]

	// FetchAll returns every post, newest first.
	FetchAll(ctx context.Context) ([]models.Post, error)
	// FetchByCategory returns the posts in one category, newest first.
	FetchByCategory(ctx context.Context, category models.Category) ([]models.Post, error)
	// FetchBySearch returns posts whose keyword list shares any token with
	// the phrase. An empty phrase is a validation error.
	FetchBySearch(ctx context.Context, phrase string) ([]models.Post, error)
	// FetchByUserID returns one author's posts, newest first.
	FetchByUserID(ctx context.Context, userID string) ([]models.Post, error)
}

// PostService composes deletion flows from document and blob primitives.
type PostService interface {
	// DeletePost removes the post's video blob, image blob, then its
	// document, in that order, stopping at the first failure. The blob
	// URLs come from the stored document, never from the caller, and the
	// post must belong to requesterID (ErrForbidden otherwise).
	DeletePost(ctx context.Context, postID, requesterID string) error
	// DeletePostsByUserID batch-deletes one author's post documents. The
	// associated media blobs are not removed on this path.
	DeletePostsByUserID(ctx context.Context, userID string) error
}
