package tabs

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	twitchOriginPattern = "https://www.twitch.tv/*"
	twitchTabPattern    = "*://*.twitch.tv/*"
	twitchSchemeHost    = "https://www.twitch.tv"
)

// lockedTabCheck marks tabs the user is actively engaged with: VOD playback,
// clips, schedule and the moderator view. Those are never navigated away
// from, no matter how a candidate ranks. Best-effort pattern coverage.
var lockedTabCheck = regexp.MustCompile(`(?i)twitch\.tv/(videos?/|moderator/|[^/]+/(clips?|videos?|schedule)(/|$))`)

// reservedPaths are top-level twitch.tv paths that are not channel pages.
var reservedPaths = map[string]bool{
	"directory":     true,
	"downloads":     true,
	"drops":         true,
	"jobs":          true,
	"p":             true,
	"search":        true,
	"settings":      true,
	"store":         true,
	"subscriptions": true,
	"turbo":         true,
	"videos":        true,
	"wallet":        true,
}

func channelURL(username string) string {
	return twitchSchemeHost + "/" + strings.ToLower(username)
}

func lockedTab(rawURL string) bool {
	return lockedTabCheck.MatchString(rawURL)
}

// channelFromURL extracts the channel login from a twitch.tv channel-page
// URL. Only a bare single-segment path counts; settings, directory, VOD and
// similar paths yield no identity.
func channelFromURL(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if !strings.HasSuffix(parsed.Hostname(), "twitch.tv") {
		return "", false
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) != 1 || segments[0] == "" {
		return "", false
	}

	login := strings.ToLower(segments[0])
	if reservedPaths[login] {
		return "", false
	}

	return login, true
}
