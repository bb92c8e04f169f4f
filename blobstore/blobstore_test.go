package blobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned delivery URL",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/varsharaksha/posts/abc-123.jpg",
			want: "varsharaksha/posts/abc-123",
		},
		{
			name: "transformation segment",
			url:  "https://res.cloudinary.com/demo/image/upload/c_limit,w_1200/v1712345678/varsharaksha/posts/abc-123.png",
			want: "varsharaksha/posts/abc-123",
		},
		{
			name: "no version",
			url:  "https://res.cloudinary.com/demo/image/upload/varsharaksha/posts/abc-123.webp",
			want: "varsharaksha/posts/abc-123",
		},
		{
			name: "no extension",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/varsharaksha/posts/abc-123",
			want: "varsharaksha/posts/abc-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublicIDFromURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicIDFromURLRejectsNonDeliveryURL(t *testing.T) {
	_, err := PublicIDFromURL("https://example.com/some/image.jpg")
	assert.Error(t, err)

	_, err = PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/")
	assert.Error(t, err)
}
