package models

import (
	"strings"
	"time"
)

// Category is the fixed set of recipe categories a post can belong to.
type Category string

const (
	CategoryAfrican  Category = "AFRICAN"
	CategoryAsian    Category = "ASIAN"
	CategoryEuropean Category = "EUROPEAN"
	CategoryAmerican Category = "AMERICAN"
)

// Categories lists every valid category, in display order.
var Categories = []Category{CategoryAfrican, CategoryAsian, CategoryEuropean, CategoryAmerican}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAfrican, CategoryAsian, CategoryEuropean, CategoryAmerican:
		return true
	}
	return false
}

// LatLng is a geographic coordinate. The zero value (0,0) is the
// "no location" sentinel carried over from the mobile client.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether the coordinate is the no-location sentinel.
func (l LatLng) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0
}

// Post represents a published recipe post. Once created, its media URLs
// reference blobs that exist in object storage for as long as the
// document does.
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         Category  `json:"category"`
	ImageURL         string    `json:"image"`
	VideoURL         string    `json:"video"`
	UserID           string    `json:"userId"`
	UserDisplayName  string    `json:"userDisplayName"`
	UserLocationName string    `json:"userLocationName"`
	Location         *LatLng   `json:"userLocation,omitempty"`
	DateCreated      time.Time `json:"dateCreated"`
	Keywords         []string  `json:"keywords,omitempty"`
}

// TitleKeywords derives the search keyword list for a post: the
// lower-cased, whitespace-split tokens of its title.
func TitleKeywords(title string) []string {
	return strings.Fields(strings.ToLower(title))
}

// Blob is an opaque media payload handed to the object store.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Empty reports whether the blob is absent or carries no bytes.
func (b *Blob) Empty() bool {
	return b == nil || len(b.Data) == 0
}

// PostFromFields decodes a posts-collection document into a Post.
// Missing or mistyped fields decode to their zero values, matching the
// lenient reads the mobile client performed.
func PostFromFields(id string, fields map[string]any) Post {
	p := Post{ID: id}
	if v, ok := fields["title"].(string); ok {
		p.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		p.Description = v
	}
	if v, ok := fields["category"].(string); ok {
		p.Category = Category(v)
	}
	if v, ok := fields["image"].(string); ok {
		p.ImageURL = v
	}
	if v, ok := fields["video"].(string); ok {
		p.VideoURL = v
	}
	if v, ok := fields["userId"].(string); ok {
		p.UserID = v
	}
	if v, ok := fields["userDisplayName"].(string); ok {
		p.UserDisplayName = v
	}
	if v, ok := fields["userLocationName"].(string); ok {
		p.UserLocationName = v
	}
	switch v := fields["userLocation"].(type) {
	case LatLng:
		if !v.IsZero() {
			loc := v
			p.Location = &loc
		}
	case *LatLng:
		if v != nil && !v.IsZero() {
			loc := *v
			p.Location = &loc
		}
	}
	if v, ok := fields["dateCreated"].(time.Time); ok {
		p.DateCreated = v
	}
	switch v := fields["keywords"].(type) {
	case []string:
		p.Keywords = v
	case []any:
		for _, kw := range v {
			if s, ok := kw.(string); ok {
				p.Keywords = append(p.Keywords, s)
			}
		}
	}
	return p
}
