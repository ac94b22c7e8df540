// Package repo provides postgres access for api keys and usage logs
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"scribe/internal/modkit/repokit"
	perr "scribe/internal/platform/errors"
	"scribe/internal/services/keys/domain"
)

// Repo defines the repository contract for keys and usage
type Repo interface {
	FindByAPIKey(ctx context.Context, rawKey string) (domain.Key, error)
	FindByID(ctx context.Context, id string) (domain.Key, error)
	CountUsageSince(ctx context.Context, keyID string, since time.Time) (int, error)
	InsertUsage(ctx context.Context, ev domain.UsageEvent) error
	TouchLastUsed(ctx context.Context, keyID string, at time.Time) error

	List(ctx context.Context) ([]domain.Key, error)
	Insert(ctx context.Context, k domain.Key) error
	Update(ctx context.Context, k domain.Key) error
	Delete(ctx context.Context, id string) error
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const keyColumns = `id::text, client_name, api_key, is_active, monthly_limit, coalesce(notes, ''), created_at, last_used_at`

func (r *queries) FindByAPIKey(ctx context.Context, rawKey string) (domain.Key, error) {
	const sql = `select ` + keyColumns + ` from api_keys where api_key = $1`
	return r.scanKey(r.q.QueryRow(ctx, sql, rawKey))
}

func (r *queries) FindByID(ctx context.Context, id string) (domain.Key, error) {
	const sql = `select ` + keyColumns + ` from api_keys where id = $1::uuid`
	return r.scanKey(r.q.QueryRow(ctx, sql, id))
}

func (r *queries) scanKey(row repokit.Row) (domain.Key, error) {
	var k domain.Key
	err := row.Scan(
		&k.ID,
		&k.ClientName,
		&k.APIKey,
		&k.IsActive,
		&k.MonthlyLimit,
		&k.Notes,
		&k.CreatedAt,
		&k.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Key{}, perr.ErrNotFound
		}
		return domain.Key{}, err
	}
	return k, nil
}

func (r *queries) CountUsageSince(ctx context.Context, keyID string, since time.Time) (int, error) {
	const sql = `select count(*) from api_usage_logs where api_key_id = $1::uuid and requested_at >= $2`
	var n int
	if err := r.q.QueryRow(ctx, sql, keyID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *queries) InsertUsage(ctx context.Context, ev domain.UsageEvent) error {
	const sql = `
insert into api_usage_logs (api_key_id, path_invoked, status_code, video_id, notes, requested_at)
values ($1::uuid, $2, $3, nullif($4, ''), nullif($5, ''), $6)
`
	_, err := r.q.Exec(ctx, sql, ev.KeyID, ev.Path, ev.StatusCode, ev.VideoID, ev.Notes, ev.RequestedAt)
	return err
}

func (r *queries) TouchLastUsed(ctx context.Context, keyID string, at time.Time) error {
	const sql = `update api_keys set last_used_at = $2 where id = $1::uuid`
	_, err := r.q.Exec(ctx, sql, keyID, at)
	return err
}

func (r *queries) List(ctx context.Context) ([]domain.Key, error) {
	const sql = `select ` + keyColumns + ` from api_keys order by created_at desc`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Key
	for rows.Next() {
		var k domain.Key
		if err := rows.Scan(
			&k.ID,
			&k.ClientName,
			&k.APIKey,
			&k.IsActive,
			&k.MonthlyLimit,
			&k.Notes,
			&k.CreatedAt,
			&k.LastUsedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *queries) Insert(ctx context.Context, k domain.Key) error {
	const sql = `
insert into api_keys (id, client_name, api_key, is_active, monthly_limit, notes, created_at)
values ($1::uuid, $2, $3, $4, $5, nullif($6, ''), $7)
`
	_, err := r.q.Exec(ctx, sql, k.ID, k.ClientName, k.APIKey, k.IsActive, k.MonthlyLimit, k.Notes, k.CreatedAt)
	return err
}

func (r *queries) Update(ctx context.Context, k domain.Key) error {
	const sql = `
update api_keys
set client_name = $2, is_active = $3, monthly_limit = $4, notes = nullif($5, '')
where id = $1::uuid
`
	tag, err := r.q.Exec(ctx, sql, k.ID, k.ClientName, k.IsActive, k.MonthlyLimit, k.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.ErrNotFound
	}
	return nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	const sql = `delete from api_keys where id = $1::uuid`
	tag, err := r.q.Exec(ctx, sql, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.ErrNotFound
	}
	return nil
}
