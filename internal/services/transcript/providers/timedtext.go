package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"scribe/internal/core/captions"
	"scribe/internal/core/videoid"
	"scribe/internal/platform/logger"
)

const (
	watchBaseDefault = "https://www.youtube.com"
	scrapeTimeout    = 45 * time.Second
)

// TimedTextOptions configures the watch page scrape adapter
type TimedTextOptions struct {
	BaseURL string
	Timeout time.Duration
}

// TimedText scrapes the watch page for caption tracks and fetches the
// selected track's timedtext XML
type TimedText struct {
	http *http.Client
	opts TimedTextOptions
	log  logger.Logger
}

// NewTimedText creates the adapter with sane defaults
func NewTimedText(o TimedTextOptions) *TimedText {
	if o.BaseURL == "" {
		o.BaseURL = watchBaseDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = scrapeTimeout
	}
	return &TimedText{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("provider.timedtext"),
	}
}

// Name implements Provider
func (p *TimedText) Name() string { return "timedtext" }

// timedTextDoc is the transcript XML served by the timedtext endpoint
type timedTextDoc struct {
	Entries []struct {
		Text  string `xml:",chardata"`
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
	} `xml:"text"`
}

// Fetch implements Provider
func (p *TimedText) Fetch(ctx context.Context, id videoid.ID, lang string) Result {
	tracks, reason := scrapeTracks(ctx, p.http, p.opts.BaseURL, id)
	if reason != "" {
		return Failure(reason)
	}

	track, ok := bestTrack(tracks, lang)
	if !ok {
		return Failure("no caption tracks")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
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

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return Failure("unparseable timedtext xml")
	}

	var out []captions.Snippet
	for _, e := range doc.Entries {
		out = appendSnippet(out, e.Text, e.Start, e.Dur)
	}
	if len(out) == 0 {
		return Failure(ReasonEmpty)
	}

	p.log.Debug().
		Str("video", id.String()).
		Str("track_lang", track.LanguageCode).
		Int("snippets", len(out)).
		Msg("timedtext fetch ok")
	return Success(out, track.LanguageCode)
}
