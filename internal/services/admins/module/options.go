package module

import "bear/internal/platform/config"

// Options holds configuration for the admins module
type Options struct {
	EqualizeTiming bool
}

// FromConfig reads AUTH_* settings
func FromConfig(cfg config.Conf) Options {
	auth := cfg.Prefix("AUTH_")
	return Options{
		EqualizeTiming: auth.MayBool("EQUALIZE_TIMING", false),
	}
}
