// Package service drives the provider cascade and owns the fallback policy
package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"scribe/internal/core/captions"
	"scribe/internal/core/videoid"
	perr "scribe/internal/platform/errors"
	"scribe/internal/platform/logger"
	"scribe/internal/services/transcript/domain"
	"scribe/internal/services/transcript/providers"
)

const (
	// firstWave is how many providers are dispatched together before
	// falling back sequentially to the remainder
	firstWave = 2

	// defaultBulkInterval paces bulk sub-requests
	defaultBulkInterval = 550 * time.Millisecond
)

// Service defines the orchestrator contract
type Service interface{ domain.ServicePort }

// Config tunes the orchestrator
type Config struct {
	// BulkIntervalMs is the fixed interval between bulk sub-requests
	BulkIntervalMs int
}

// Svc implements Service over an ordered provider list
// list order is the priority order and is fixed at construction
type Svc struct {
	providers []providers.Provider
	interval  time.Duration
	log       logger.Logger
}

// New creates the orchestrator
func New(cfg Config, provs ...providers.Provider) *Svc {
	if len(provs) == 0 {
		panic("transcript.Service requires at least one provider")
	}
	interval := defaultBulkInterval
	if cfg.BulkIntervalMs > 0 {
		interval = time.Duration(cfg.BulkIntervalMs) * time.Millisecond
	}
	return &Svc{
		providers: provs,
		interval:  interval,
		log:       *logger.Named("transcript"),
	}
}

// Resolve runs the cascade for one video
// The first two providers are dispatched concurrently; both must settle
// before the priority rule picks between them, so a fast second place
// never beats a slow first place
func (s *Svc) Resolve(ctx context.Context, in domain.Request) (domain.Transcript, error) {
	id, ok := videoid.Extract(in.Source)
	if !ok {
		return domain.Transcript{}, perr.Validationf("could not extract a video id from %q", in.Source)
	}
	lang := in.Lang
	if lang == "" {
		lang = "en"
	}

	reasons := make([]string, 0, len(s.providers))

	wave := firstWave
	if wave > len(s.providers) {
		wave = len(s.providers)
	}

	results := make([]providers.Result, wave)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < wave; i++ {
		g.Go(func() error {
			results[i] = s.providers[i].Fetch(gctx, id, lang)
			return nil
		})
	}
	// fetches never error, Wait only propagates ctx problems
	_ = g.Wait()

	// priority order is list order, not arrival order
	for i := 0; i < wave; i++ {
		if t, won := s.accept(id, results[i], s.providers[i].Name()); won {
			t.FailureDetail = strings.Join(reasons, "; ")
			return t, nil
		}
		reasons = append(reasons, s.providers[i].Name()+": "+failReason(results[i]))
	}

	// sequential fallback through the remainder
	for i := wave; i < len(s.providers); i++ {
		if err := ctx.Err(); err != nil {
			return domain.Transcript{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "transcript resolve cancelled")
		}
		res := s.providers[i].Fetch(ctx, id, lang)
		if t, won := s.accept(id, res, s.providers[i].Name()); won {
			t.FailureDetail = strings.Join(reasons, "; ")
			return t, nil
		}
		reasons = append(reasons, s.providers[i].Name()+": "+failReason(res))
	}

	s.log.Warn().
		Str("video", id.String()).
		Strs("reasons", reasons).
		Msg("all providers exhausted")
	return domain.Transcript{}, perr.Upstreamf("no provider produced a transcript (%s)", strings.Join(reasons, "; "))
}

// accept formats a winning result, rejecting wins that clean to nothing
func (s *Svc) accept(id videoid.ID, res providers.Result, name string) (domain.Transcript, bool) {
	if !res.OK() {
		return domain.Transcript{}, false
	}
	text := captions.Paragraphs(res.Snippets)
	if text == "" {
		return domain.Transcript{}, false
	}
	s.log.Debug().
		Str("video", id.String()).
		Str("method", name).
		Int("snippets", len(res.Snippets)).
		Msg("transcript resolved")
	return domain.Transcript{
		VideoID:    id.String(),
		Language:   res.Language,
		FullText:   text,
		MethodUsed: name,
	}, true
}

// failReason names why a result lost
func failReason(res providers.Result) string {
	if res.Reason != "" {
		return res.Reason
	}
	if len(res.Snippets) == 0 {
		return providers.ReasonEmpty
	}
	return "empty transcript text"
}

// ResolveBulk runs Resolve for each source at a fixed pace
// each sub-request is a full cascade; failures never abort the run
func (s *Svc) ResolveBulk(ctx context.Context, sources []string, lang string) (domain.BulkResult, error) {
	if len(sources) == 0 {
		return domain.BulkResult{}, perr.Validationf("no sources given")
	}

	lim := rate.NewLimiter(rate.Every(s.interval), 1)

	out := domain.BulkResult{Items: make([]domain.BulkItem, 0, len(sources))}
	for _, src := range sources {
		if err := lim.Wait(ctx); err != nil {
			return out, perr.Wrapf(err, perr.ErrorCodeUnknown, "bulk resolve cancelled")
		}

		t, err := s.Resolve(ctx, domain.Request{Source: src, Lang: lang})
		item := domain.BulkItem{Source: src}
		if err != nil {
			item.Err = err.Error()
			item.Status = perr.HTTPStatus(err)
			out.Failed++
		} else {
			item.Transcript = &t
			item.Status = 200
			out.Succeeded++
		}
		out.Items = append(out.Items, item)
	}

	s.log.Info().
		Int("sources", len(sources)).
		Int("succeeded", out.Succeeded).
		Int("failed", out.Failed).
		Msg("bulk resolve done")
	return out, nil
}
