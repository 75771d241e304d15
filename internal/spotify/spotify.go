// Package spotify turns a Spotify share link into the URL of its embeddable player.
package spotify

import "regexp"

// DefaultEmbedURL is used whenever the input is empty or not a recognized Spotify link.
const DefaultEmbedURL = "https://open.spotify.com/embed/playlist/37i9dQZF1DXcBWIGoYBM5M"

var shareURLPattern = regexp.MustCompile(`^https?://open\.spotify\.com/(playlist|track|album|artist|show|episode)/([A-Za-z0-9]+)`)

// ToEmbed rewrites https://open.spotify.com/{kind}/{id} to
// https://open.spotify.com/embed/{kind}/{id}. Invalid input falls back to DefaultEmbedURL.
func ToEmbed(shareURL string) string {
	match := shareURLPattern.FindStringSubmatch(shareURL)
	if match == nil {
		return DefaultEmbedURL
	}

	return "https://open.spotify.com/embed/" + match[1] + "/" + match[2]
}
