package medialibrary

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// NormalizeYouTube accepts a video id or any common YouTube URL form and
// returns the canonical watch URL.
func NormalizeYouTube(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if youtubeID.MatchString(ref) {
		return watchURL(ref), nil
	}

	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidYouTubeVideo, ref)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"), strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/live/"):
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) == 2 {
				id = parts[1]
			}
		}
	}

	if !youtubeID.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidYouTubeVideo, ref)
	}
	return watchURL(id), nil
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
