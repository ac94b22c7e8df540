package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scribe/internal/core/captions"
	"scribe/internal/core/videoid"
	"scribe/internal/platform/logger"
)

// InnerTubeOptions configures the json3 track adapter
type InnerTubeOptions struct {
	BaseURL string
	Timeout time.Duration
}

// InnerTube shares track discovery with TimedText but fetches the track
// in the json3 event format, which survives videos whose XML endpoint
// serves empty documents
type InnerTube struct {
	http *http.Client
	opts InnerTubeOptions
	log  logger.Logger
}

// NewInnerTube creates the adapter with sane defaults
func NewInnerTube(o InnerTubeOptions) *InnerTube {
	if o.BaseURL == "" {
		o.BaseURL = watchBaseDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = scrapeTimeout
	}
	return &InnerTube{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("provider.innertube"),
	}
}

// Name implements Provider
func (p *InnerTube) Name() string { return "innertube" }

// json3Doc is the json3 caption stream
// timing is milliseconds, text is split across nested segments
type json3Doc struct {
	Events []struct {
		TStartMs    json.Number `json:"tStartMs"`
		DDurationMs json.Number `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch implements Provider
func (p *InnerTube) Fetch(ctx context.Context, id videoid.ID, lang string) Result {
	tracks, reason := scrapeTracks(ctx, p.http, p.opts.BaseURL, id)
	if reason != "" {
		return Failure(reason)
	}

	track, ok := bestTrack(tracks, lang)
	if !ok {
		return Failure("no caption tracks")
	}

	u := track.BaseURL
	if strings.Contains(u, "?") {
		u += "&fmt=json3"
	} else {
		u += "?fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Failure(fmt.Sprintf("build track request: %v", err))
	}

	res, err := p.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Failure(ReasonTimeout)
		}
		return Failure(fmt.Sprintf("track transport: %v", err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return Failure(fmt.Sprintf("read track body: %v", err))
	}
	if res.StatusCode != http.StatusOK {
		return Failure(fmt.Sprintf("track status %d", res.StatusCode))
	}

	var doc json3Doc
	if err := json.Unmarshal(body, &doc); err != nil {
		return Failure("unparseable json3 body")
	}

	var out []captions.Snippet
	for _, ev := range doc.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.ReplaceAll(sb.String(), "\n", " ")

		startMs, okS := asSeconds(ev.TStartMs)
		durMs, okD := asSeconds(ev.DDurationMs)
		if !okS || !okD {
			continue
		}
		out = append(out, captions.Snippet{
			Text:  text,
			Start: startMs / 1000,
			Dur:   durMs / 1000,
		})
	}
	if len(out) == 0 {
		return Failure(ReasonEmpty)
	}

	p.log.Debug().
		Str("video", id.String()).
		Str("track_lang", track.LanguageCode).
		Int("snippets", len(out)).
		Msg("innertube fetch ok")
	return Success(out, track.LanguageCode)
}
