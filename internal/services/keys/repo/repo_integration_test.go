//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	perr "scribe/internal/platform/errors"
	"scribe/internal/platform/store"
	"scribe/internal/services/keys/domain"
)

const schema = `
create table api_keys (
	id uuid primary key,
	client_name text not null,
	api_key text not null unique,
	is_active boolean not null default true,
	monthly_limit integer not null default -1,
	notes text,
	created_at timestamptz not null default now(),
	last_used_at timestamptz
);

create table api_usage_logs (
	id bigserial primary key,
	api_key_id uuid not null references api_keys(id) on delete cascade,
	path_invoked text not null,
	status_code integer not null,
	video_id text,
	notes text,
	requested_at timestamptz not null default now()
);

create index idx_usage_key_time on api_usage_logs (api_key_id, requested_at);
`

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestRepo_KeyAndUsageRoundTrip_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "scribe-keys-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	defer st.Close(ctx)

	if _, err := st.PG.Exec(ctx, schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	r := NewPG().Bind(st.PG)

	k := domain.Key{
		ID:           "3f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8",
		ClientName:   "acme",
		APIKey:       "test-key-1",
		IsActive:     true,
		MonthlyLimit: 5,
		Notes:        "integration",
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Insert(ctx, k); err != nil {
		t.Fatalf("insert key: %v", err)
	}

	got, err := r.FindByAPIKey(ctx, "test-key-1")
	if err != nil {
		t.Fatalf("find by api key: %v", err)
	}
	if got.ID != k.ID || got.ClientName != "acme" || got.MonthlyLimit != 5 || !got.IsActive {
		t.Fatalf("unexpected key %+v", got)
	}
	if got.LastUsedAt != nil {
		t.Fatalf("fresh key should have nil last_used_at")
	}

	if _, err := r.FindByAPIKey(ctx, "no-such-key"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// usage counting window
	now := time.Now().UTC()
	monthAgo := now.AddDate(0, -1, 0)
	for i, at := range []time.Time{now, now.Add(-time.Hour), monthAgo.Add(-time.Hour)} {
		ev := domain.UsageEvent{
			KeyID:       k.ID,
			Path:        "/transcripts",
			StatusCode:  200,
			VideoID:     fmt.Sprintf("vid-%d", i),
			RequestedAt: at,
		}
		if err := r.InsertUsage(ctx, ev); err != nil {
			t.Fatalf("insert usage: %v", err)
		}
	}

	n, err := r.CountUsageSince(ctx, k.ID, now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("count usage: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d want 2 (old event excluded)", n)
	}

	// touch last used and read it back
	if err := r.TouchLastUsed(ctx, k.ID, now); err != nil {
		t.Fatalf("touch last used: %v", err)
	}
	got, err = r.FindByID(ctx, k.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.LastUsedAt == nil {
		t.Fatalf("last_used_at not set")
	}

	// update and list
	got.ClientName = "acme-renamed"
	got.IsActive = false
	if err := r.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ClientName != "acme-renamed" || all[0].IsActive {
		t.Fatalf("unexpected list %+v", all)
	}

	// delete cascades usage
	if err := r.Delete(ctx, k.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, k.ID); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	n, err = r.CountUsageSince(ctx, k.ID, monthAgo.AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("count after delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("usage rows should cascade on delete, got %d", n)
	}
}
