// Package videoid extracts canonical YouTube video identifiers from the
// many URL shapes callers paste in
package videoid

import (
	"net/url"
	"strings"
)

// ID is an 11 character YouTube video identifier
type ID string

// String returns the raw identifier
func (id ID) String() string { return string(id) }

const idLen = 11

// valid reports whether s matches the identifier grammar
// [A-Za-z0-9_-]{11}
func valid(s string) bool {
	if len(s) != idLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

// Extract pulls the video id out of source, which may be a bare id, a
// canonical watch URL, a youtu.be short link, an embed, /v/, shorts, or
// live URL. Returns ok=false when no identifier can be found
func Extract(source string) (ID, bool) {
	s := strings.TrimSpace(source)
	if s == "" {
		return "", false
	}

	// bare id short circuit
	if valid(s) {
		return ID(s), true
	}

	// tolerate scheme-less host forms
	if !strings.Contains(s, "://") {
		if strings.HasPrefix(s, "youtube.com/") ||
			strings.HasPrefix(s, "www.youtube.com/") ||
			strings.HasPrefix(s, "m.youtube.com/") ||
			strings.HasPrefix(s, "youtu.be/") {
			s = "https://" + s
		}
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		// https://youtu.be/<id>
		if id := firstSegment(u.Path); valid(id) {
			return ID(id), true
		}
	case "youtube.com", "youtube-nocookie.com":
		// https://www.youtube.com/watch?v=<id>
		if id := u.Query().Get("v"); valid(id) {
			return ID(id), true
		}
		// /embed/<id>, /v/<id>, /shorts/<id>, /live/<id>
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segs) >= 2 {
			switch segs[0] {
			case "embed", "v", "shorts", "live":
				if valid(segs[1]) {
					return ID(segs[1]), true
				}
			}
		}
	}
	return "", false
}

// firstSegment returns the first non-empty path segment
func firstSegment(p string) string {
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
