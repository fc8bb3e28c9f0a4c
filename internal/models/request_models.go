package models

// SignupRequest is the payload for password account creation.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for password sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleSignInRequest carries the Google ID token obtained by the client's
// credential broker.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}

// UpdateProfileRequest is the payload for profile updates.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreatePostInput bundles everything the upload pipeline needs to publish
// a post. UserID is the caller's verified identity and becomes the post's
// author. Image and Video are required; Location may be the (0,0)
// sentinel when the author shared no location.
type CreatePostInput struct {
	Title        string
	Description  string
	Category     Category
	Image        *Blob
	Video        *Blob
	UserID       string
	UserName     string
	LocationName string
	Location     LatLng
}
