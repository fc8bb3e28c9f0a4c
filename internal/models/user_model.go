package models

// UserProfile is the user document stored in the "users" collection.
// The document ID is the Firebase Auth UID; it is not stored as a field.
type UserProfile struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// SentinelProfile is the fail-soft profile published whenever a profile
// fetch fails (missing document, network error, no session). The UI must
// never block on a profile fetch, so failures degrade to this value
// instead of an error.
func SentinelProfile() *UserProfile {
	return &UserProfile{Name: "no name", Email: "no email"}
}

// Fields returns the Firestore field map written on profile creation.
func (u *UserProfile) Fields() map[string]any {
	return map[string]any{
		"name":            u.Name,
		"email":           u.Email,
		"profileImageUrl": u.ProfileImageURL,
	}
}

// ProfileFromFields decodes a users-collection document into a UserProfile.
func ProfileFromFields(id string, fields map[string]any) *UserProfile {
	p := &UserProfile{ID: id}
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["email"].(string); ok {
		p.Email = v
	}
	if v, ok := fields["profileImageUrl"].(string); ok {
		p.ProfileImageURL = v
	}
	return p
}
