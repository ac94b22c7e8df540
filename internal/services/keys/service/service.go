// Package service contains the admission gate and key management workflows
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"scribe/internal/modkit/repokit"
	perr "scribe/internal/platform/errors"
	"scribe/internal/platform/logger"
	ptime "scribe/internal/platform/time"
	"scribe/internal/services/keys/domain"
	"scribe/internal/services/keys/repo"
)

// Service bundles admission and management
type Service interface {
	domain.AdmitPort
	domain.ManagePort
}

// Svc implements Service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	log    logger.Logger
	now    func() time.Time
}

// New creates the keys service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("keys.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("keys.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		log:    *logger.Named("keys"),
		now:    time.Now,
	}
}

// Admit validates a raw api key and enforces its monthly quota.
// Inactive-key and quota rejections each record one usage event before
// returning, matching how those attempts are billed.
// A store failure admits nobody
func (s *Svc) Admit(ctx context.Context, rawKey, path, videoID string) (domain.Key, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return domain.Key{}, perr.Unauthorizedf("missing api key")
	}

	k, err := s.Repo.FindByAPIKey(ctx, rawKey)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Key{}, perr.Forbiddenf("invalid api key")
		}
		s.log.Error().Err(err).Msg("key lookup failed, admitting nobody")
		return domain.Key{}, perr.DBf("key store unavailable")
	}

	if !k.IsActive {
		s.billRejection(ctx, k.ID, path, 403, videoID, "rejected: inactive key")
		return domain.Key{}, perr.Forbiddenf("api key is inactive")
	}

	if k.MonthlyLimit != -1 {
		used, err := s.Repo.CountUsageSince(ctx, k.ID, ptime.MonthStart(s.now()))
		if err != nil {
			s.log.Error().Err(err).Str("key_id", k.ID).Msg("usage count failed, admitting nobody")
			return domain.Key{}, perr.DBf("usage store unavailable")
		}
		if used >= k.MonthlyLimit {
			s.billRejection(ctx, k.ID, path, 429, videoID, "rejected: monthly limit reached")
			return domain.Key{}, perr.TooManyRequestsf("monthly request limit reached")
		}
	}

	return k, nil
}

// billRejection appends the usage event owed by a billable rejection
// best effort, the rejection stands either way
func (s *Svc) billRejection(ctx context.Context, keyID, path string, status int, videoID, note string) {
	ev := domain.UsageEvent{
		KeyID:       keyID,
		Path:        path,
		StatusCode:  status,
		VideoID:     videoID,
		Notes:       note,
		RequestedAt: s.now().UTC(),
	}
	if err := s.Repo.InsertUsage(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("key_id", keyID).Msg("failed to record rejection usage")
	}
}

// RecordUsage appends exactly one usage event and touches last_used_at
func (s *Svc) RecordUsage(ctx context.Context, ev domain.UsageEvent) error {
	if ev.RequestedAt.IsZero() {
		ev.RequestedAt = s.now().UTC()
	}
	if err := s.Repo.InsertUsage(ctx, ev); err != nil {
		return perr.FromPostgres(err, "insert usage event")
	}
	if err := s.Repo.TouchLastUsed(ctx, ev.KeyID, ev.RequestedAt); err != nil {
		// the event is already booked, last_used_at is advisory
		s.log.Warn().Err(err).Str("key_id", ev.KeyID).Msg("failed to touch last_used_at")
	}
	return nil
}

// List returns all keys, newest first
func (s *Svc) List(ctx context.Context) ([]domain.Key, error) {
	out, err := s.Repo.List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list api keys")
	}
	return out, nil
}

// Create mints a fresh key for a client
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Key, error) {
	limit := -1
	if in.MonthlyLimit != nil {
		limit = *in.MonthlyLimit
	}
	if limit < -1 {
		return domain.Key{}, perr.Validationf("monthly_limit must be >= -1")
	}

	k := domain.Key{
		ID:           uuid.NewString(),
		ClientName:   strings.TrimSpace(in.ClientName),
		APIKey:       uuid.NewString(),
		IsActive:     true,
		MonthlyLimit: limit,
		Notes:        in.Notes,
		CreatedAt:    s.now().UTC(),
	}
	if k.ClientName == "" {
		return domain.Key{}, perr.Validationf("client_name is required")
	}

	if err := s.Repo.Insert(ctx, k); err != nil {
		return domain.Key{}, perr.FromPostgres(err, "insert api key")
	}
	s.log.Info().Str("key_id", k.ID).Str("client", k.ClientName).Msg("api key created")
	return k, nil
}

// Update applies the non-nil fields of in to the key
func (s *Svc) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Key, error) {
	k, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Key{}, perr.NotFoundf("api key %s not found", id)
		}
		return domain.Key{}, perr.FromPostgres(err, "find api key")
	}

	if in.ClientName != nil {
		k.ClientName = strings.TrimSpace(*in.ClientName)
		if k.ClientName == "" {
			return domain.Key{}, perr.Validationf("client_name cannot be empty")
		}
	}
	if in.IsActive != nil {
		k.IsActive = *in.IsActive
	}
	if in.MonthlyLimit != nil {
		if *in.MonthlyLimit < -1 {
			return domain.Key{}, perr.Validationf("monthly_limit must be >= -1")
		}
		k.MonthlyLimit = *in.MonthlyLimit
	}
	if in.Notes != nil {
		k.Notes = *in.Notes
	}

	if err := s.Repo.Update(ctx, k); err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Key{}, perr.NotFoundf("api key %s not found", id)
		}
		return domain.Key{}, perr.FromPostgres(err, "update api key")
	}
	return k, nil
}

// Delete removes a key and detaches its usage history
func (s *Svc) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return perr.NotFoundf("api key %s not found", id)
		}
		return perr.FromPostgres(err, "delete api key")
	}
	s.log.Info().Str("key_id", id).Msg("api key deleted")
	return nil
}
