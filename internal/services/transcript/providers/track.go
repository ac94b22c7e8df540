package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"scribe/internal/core/videoid"
)

// captionTrack is one entry of the watch page track list
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

func (t captionTrack) auto() bool { return t.Kind == "asr" }

// trackList mirrors the captions blob embedded in the watch page
type trackList struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// scrapeTracks pulls the caption track list out of the watch page HTML.
// The page embeds a "captions": JSON blob terminated by ,"videoDetails
func scrapeTracks(ctx context.Context, client *http.Client, baseURL string, id videoid.ID) ([]captionTrack, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/watch?v="+id.String(), nil)
	if err != nil {
		return nil, fmt.Sprintf("build request: %v", err)
	}
	req.Header.Set("Accept-Language", "en-US,en")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; scribe/1.0)")

	res, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ReasonTimeout
		}
		return nil, fmt.Sprintf("transport: %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, fmt.Sprintf("read body: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Sprintf("watch page status %d", res.StatusCode)
	}

	page := string(body)
	_, after, found := strings.Cut(page, `"captions":`)
	if !found {
		if strings.Contains(page, `class="g-recaptcha"`) {
			return nil, "captcha challenge"
		}
		return nil, "no captions on watch page"
	}
	blob, _, _ := strings.Cut(after, `,"videoDetails`)
	blob = strings.ReplaceAll(blob, "\n", "")

	var tl trackList
	if err := json.Unmarshal([]byte(blob), &tl); err != nil {
		return nil, "unparseable captions blob"
	}

	tracks := tl.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, "no caption tracks"
	}
	return tracks, ""
}

// bestTrack selects the track closest to the language hint.
// Manual tracks in the hinted language beat auto-generated ones, which
// beat manual tracks in any language, which beat whatever is first
func bestTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}

	want, err := language.Parse(lang)
	if err != nil {
		want = language.English
	}

	var manual, auto []captionTrack
	for _, t := range tracks {
		if t.auto() {
			auto = append(auto, t)
		} else {
			manual = append(manual, t)
		}
	}

	if t, ok := matchLang(manual, want); ok {
		return t, true
	}
	if t, ok := matchLang(auto, want); ok {
		return t, true
	}
	if len(manual) > 0 {
		return manual[0], true
	}
	return tracks[0], true
}

// matchLang finds the candidate whose language code best matches want
func matchLang(cands []captionTrack, want language.Tag) (captionTrack, bool) {
	if len(cands) == 0 {
		return captionTrack{}, false
	}
	tags := make([]language.Tag, 0, len(cands))
	idxs := make([]int, 0, len(cands))
	for i, t := range cands {
		tag, err := language.Parse(t.LanguageCode)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		idxs = append(idxs, i)
	}
	if len(tags) == 0 {
		return captionTrack{}, false
	}
	m := language.NewMatcher(tags)
	_, i, conf := m.Match(want)
	if conf < language.High {
		return captionTrack{}, false
	}
	return cands[idxs[i]], true
}
