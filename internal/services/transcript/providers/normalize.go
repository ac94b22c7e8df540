package providers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"scribe/internal/core/captions"
)

// asSeconds coerces a provider timing field to seconds
// upstreams send numbers, numeric strings, or json.Number depending on mood
func asSeconds(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, usable(t)
	case json.Number:
		f, err := t.Float64()
		return f, err == nil && usable(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && usable(f)
	case int:
		return float64(t), t >= 0
	default:
		return 0, false
	}
}

func usable(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// appendSnippet validates timing and appends, dropping malformed entries
// entries with empty text but valid timing are kept, the formatter handles them
func appendSnippet(dst []captions.Snippet, text string, start, dur any) []captions.Snippet {
	s, okS := asSeconds(start)
	d, okD := asSeconds(dur)
	if !okS || !okD {
		return dst
	}
	return append(dst, captions.Snippet{Text: text, Start: s, Dur: d})
}
