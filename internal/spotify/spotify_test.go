package spotify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToEmbed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"playlist", "https://open.spotify.com/playlist/abc123", "https://open.spotify.com/embed/playlist/abc123"},
		{"track over http with query", "http://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=xyz", "https://open.spotify.com/embed/track/4uLU6hMCjMI75M1A2tKUQC"},
		{"episode", "https://open.spotify.com/episode/E1", "https://open.spotify.com/embed/episode/E1"},
		{"unknown kind", "https://open.spotify.com/user/abc", DefaultEmbedURL},
		{"not a url", "not-a-url", DefaultEmbedURL},
		{"empty", "", DefaultEmbedURL},
		{"other host", "https://example.com/playlist/abc", DefaultEmbedURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToEmbed(tt.in))
		})
	}
}
