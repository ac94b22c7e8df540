package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scribe/internal/core/captions"
	"scribe/internal/core/videoid"
	"scribe/internal/platform/logger"
)

const (
	rapidBaseDefault = "https://youtube-transcriptor.p.rapidapi.com"
	rapidHostDefault = "youtube-transcriptor.p.rapidapi.com"
	rapidTimeout     = 30 * time.Second
)

// RapidAPIOptions configures the hosted transcriptor adapter
type RapidAPIOptions struct {
	BaseURL string
	Host    string
	Key     string
	Timeout time.Duration
}

// RapidAPI calls the hosted youtube-transcriptor API
// an empty Key structurally disables the adapter
type RapidAPI struct {
	http *http.Client
	opts RapidAPIOptions
	log  logger.Logger
}

// NewRapidAPI creates the adapter with sane defaults
func NewRapidAPI(o RapidAPIOptions) *RapidAPI {
	if o.BaseURL == "" {
		o.BaseURL = rapidBaseDefault
	}
	if o.Host == "" {
		o.Host = rapidHostDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = rapidTimeout
	}
	return &RapidAPI{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("provider.rapidapi"),
	}
}

// Name implements Provider
func (p *RapidAPI) Name() string { return "rapidapi" }

// rapidEntry is one caption row in the upstream payload
// timing fields arrive as numbers or numeric strings
type rapidEntry struct {
	Subtitle string `json:"subtitle"`
	Start    any    `json:"start"`
	Dur      any    `json:"dur"`
}

type rapidItem struct {
	Transcription []rapidEntry `json:"transcription"`
	AvailableLang []string     `json:"availableLangs"`
}

// rapidError is the upstream error envelope
type rapidError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Fetch implements Provider
func (p *RapidAPI) Fetch(ctx context.Context, id videoid.ID, lang string) Result {
	if p.opts.Key == "" {
		return Failure(ReasonNotConfigured)
	}
	if lang == "" {
		lang = "en"
	}

	q := url.Values{}
	q.Set("video_id", id.String())
	q.Set("lang", lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.BaseURL+"/transcript?"+q.Encode(), nil)
	if err != nil {
		return Failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("x-rapidapi-key", p.opts.Key)
	req.Header.Set("x-rapidapi-host", p.opts.Host)

	res, err := p.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Failure(ReasonTimeout)
		}
		return Failure(fmt.Sprintf("transport: %v", err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return Failure(fmt.Sprintf("read body: %v", err))
	}

	if res.StatusCode != http.StatusOK {
		var re rapidError
		if json.Unmarshal(body, &re) == nil && (re.Error != "" || re.Message != "") {
			msg := re.Error
			if msg == "" {
				msg = re.Message
			}
			return Failure(fmt.Sprintf("upstream %d: %s", res.StatusCode, msg))
		}
		return Failure(fmt.Sprintf("upstream status %d", res.StatusCode))
	}

	var items []rapidItem
	if err := json.Unmarshal(body, &items); err != nil {
		// the API flips to an error object on some rejections
		var re rapidError
		if json.Unmarshal(body, &re) == nil && (re.Error != "" || re.Message != "") {
			msg := re.Error
			if msg == "" {
				msg = re.Message
			}
			return Failure("upstream error: " + msg)
		}
		return Failure("unexpected response shape")
	}
	if len(items) == 0 {
		return Failure(ReasonEmpty)
	}

	var out []captions.Snippet
	for _, e := range items[0].Transcription {
		out = appendSnippet(out, e.Subtitle, e.Start, e.Dur)
	}
	if len(out) == 0 {
		return Failure(ReasonEmpty)
	}

	p.log.Debug().Str("video", id.String()).Int("snippets", len(out)).Msg("rapidapi fetch ok")
	return Success(out, lang)
}

// isTimeout reports whether err is a net timeout without importing net directly
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
