package module

import (
	"scribe/internal/platform/config"
)

// Options controls the admin surface
type Options struct {
	// AdminPassword guards /admin/keys, empty disables the surface
	AdminPassword string
}

// FromConfig reads ADMIN_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("ADMIN_")
	return Options{
		AdminPassword: ac.MayString("PASSWORD", ""),
	}
}
