package domain

import "context"

// AdmitPort is the admission surface used by keyed endpoints
type AdmitPort interface {
	// Admit validates the raw key and enforces the monthly quota.
	// Billable rejections (inactive key, quota) record a usage event
	Admit(ctx context.Context, rawKey, path, videoID string) (Key, error)

	// RecordUsage appends exactly one usage event and touches last_used_at
	RecordUsage(ctx context.Context, ev UsageEvent) error
}

// ManagePort is the admin CRUD surface
type ManagePort interface {
	List(ctx context.Context) ([]Key, error)
	Create(ctx context.Context, in CreateInput) (Key, error)
	Update(ctx context.Context, id string, in UpdateInput) (Key, error)
	Delete(ctx context.Context, id string) error
}
