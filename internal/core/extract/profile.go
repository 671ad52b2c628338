// internal/core/extract/profile.go
package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// Profile identifica un perfil público reconocido en una URL.
type Profile struct {
	Platform string
	Username string
}

var profileUsernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]{0,39}$`)

// Segmentos de path que no son perfiles en cada plataforma.
var nonProfileSegments = map[string]map[string]bool{
	"instagram": {
		"p": true, "reel": true, "reels": true, "stories": true,
		"explore": true, "accounts": true, "direct": true, "tv": true,
		"about": true,
	},
	"facebook": {
		"pages": true, "groups": true, "events": true, "marketplace": true,
		"watch": true, "gaming": true, "settings": true, "help": true,
		"share": true, "photo.php": true, "profile.php": true,
		"login": true, "login.php": true,
	},
	"twitter": {
		"i": true, "search": true, "home": true, "explore": true,
		"notifications": true, "messages": true, "settings": true,
		"intent": true, "hashtag": true, "share": true, "login": true,
	},
	"tiktok": {
		"discover": true, "tag": true, "music": true, "live": true,
		"explore": true, "search": true, "foryou": true,
	},
	"linkedin": {
		"company": true, "jobs": true, "feed": true, "school": true,
		"learning": true, "pulse": true, "search": true, "groups": true,
		"events": true, "posts": true,
	},
	"github": {
		"orgs": true, "settings": true, "marketplace": true, "explore": true,
		"topics": true, "trending": true, "features": true, "sponsors": true,
		"about": true, "pricing": true, "login": true, "join": true,
		"search": true, "notifications": true, "collections": true,
	},
}

// ParseProfileURL reconoce URLs de perfil en plataformas soportadas
// (Instagram, Facebook, Twitter/X, TikTok, LinkedIn, GitHub) y extrae
// plataforma y username. Los segmentos de navegación conocidos se
// descartan explícitamente para no confundir páginas internas con
// perfiles.
func ParseProfileURL(raw string) (Profile, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Profile{}, false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Profile{}, false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return Profile{}, false
	}

	switch host {
	case "instagram.com":
		return profileFromSegment("instagram", segments[0])
	case "facebook.com", "fb.com":
		return profileFromSegment("facebook", segments[0])
	case "twitter.com", "x.com":
		return profileFromSegment("twitter", segments[0])
	case "tiktok.com":
		if !strings.HasPrefix(segments[0], "@") {
			return Profile{}, false
		}
		return profileFromSegment("tiktok", strings.TrimPrefix(segments[0], "@"))
	case "linkedin.com":
		if len(segments) < 2 || segments[0] != "in" {
			return Profile{}, false
		}
		return profileFromSegment("linkedin", segments[1])
	case "github.com":
		return profileFromSegment("github", segments[0])
	}

	return Profile{}, false
}

func profileFromSegment(platform, segment string) (Profile, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return Profile{}, false
	}
	if nonProfileSegments[platform][strings.ToLower(segment)] {
		return Profile{}, false
	}
	if !profileUsernamePattern.MatchString(segment) {
		return Profile{}, false
	}
	return Profile{Platform: platform, Username: segment}, true
}

func splitPath(p string) []string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
