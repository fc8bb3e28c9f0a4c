package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("NORDIC").Valid())
	assert.False(t, Category("african").Valid())
	assert.False(t, Category("").Valid())
}

func TestTitleKeywords(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"Jollof Rice", []string{"jollof", "rice"}},
		{"  Spicy   Fried Rice ", []string{"spicy", "fried", "rice"}},
		{"WAAKYE", []string{"waakye"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := TitleKeywords(tt.title)
		if tt.want == nil {
			assert.Empty(t, got, tt.title)
		} else {
			assert.Equal(t, tt.want, got, tt.title)
		}
	}
}

func TestBlobEmpty(t *testing.T) {
	var b *Blob
	assert.True(t, b.Empty())
	assert.True(t, (&Blob{Name: "x.jpg"}).Empty())
	assert.False(t, (&Blob{Name: "x.jpg", Data: []byte("x")}).Empty())
}

func TestLatLngIsZero(t *testing.T) {
	assert.True(t, LatLng{}.IsZero())
	assert.False(t, LatLng{Latitude: 5.6, Longitude: -0.2}.IsZero())
	assert.False(t, LatLng{Latitude: 0, Longitude: -0.2}.IsZero())
}

func TestPostFromFields(t *testing.T) {
	t.Run("decodes a full document", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		p := PostFromFields("p1", map[string]any{
			"title":            "Jollof Rice",
			"description":      "A classic",
			"category":         "AFRICAN",
			"image":            "https://objects/img",
			"video":            "https://objects/vid",
			"userId":           "uid-1",
			"userDisplayName":  "Ama",
			"userLocationName": "Accra",
			"userLocation":     LatLng{Latitude: 5.6, Longitude: -0.2},
			"dateCreated":      created,
			"keywords":         []string{"jollof", "rice"},
		})

		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, CategoryAfrican, p.Category)
		assert.Equal(t, "uid-1", p.UserID)
		assert.Equal(t, created, p.DateCreated)
		assert.Equal(t, []string{"jollof", "rice"}, p.Keywords)
		if assert.NotNil(t, p.Location) {
			assert.Equal(t, 5.6, p.Location.Latitude)
		}
	})

	t.Run("the zero coordinate decodes as no location", func(t *testing.T) {
		p := PostFromFields("p1", map[string]any{"userLocation": LatLng{}})
		assert.Nil(t, p.Location)
	})

	t.Run("keywords stored as a generic slice still decode", func(t *testing.T) {
		p := PostFromFields("p1", map[string]any{"keywords": []any{"jollof", "rice"}})
		assert.Equal(t, []string{"jollof", "rice"}, p.Keywords)
	})

	t.Run("missing and mistyped fields decode to zero values", func(t *testing.T) {
		p := PostFromFields("p1", map[string]any{"title": 42})
		assert.Equal(t, "p1", p.ID)
		assert.Empty(t, p.Title)
		assert.Nil(t, p.Location)
	})
}
