package web

import (
	"time"

	"bear/internal/core/tenant"
	"bear/internal/platform/config"
	"bear/internal/platform/logger"
	"bear/internal/platform/net/middleware"
)

// Settings are the pipeline knobs read from the root config
type Settings struct {
	AuthSkip       []string
	Reserved       []string
	CORSOrigins    []string
	SlowRequest    time.Duration
	TrustedProxies middleware.Proxies
	Swagger        bool
	Profiler       bool
}

// FromConfig reads AUTH_, TENANT_ and BEAR_API_ keys
// an unparsable BEAR_API_TRUSTED_PROXIES panics
func FromConfig(cfg config.Conf) Settings {
	api := cfg.Prefix("BEAR_API_")
	proxies, err := middleware.ParseProxies(api.MayCSV("TRUSTED_PROXIES", nil))
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", "BEAR_API_TRUSTED_PROXIES").Msg("invalid trusted proxies")
	}
	return Settings{
		AuthSkip:       cfg.Prefix("AUTH_").MayCSV("SKIP_PREFIXES", middleware.DefaultAuthSkip),
		Reserved:       cfg.Prefix("TENANT_").MayCSV("RESERVED_PREFIXES", tenant.DefaultReserved),
		CORSOrigins:    api.MayCSV("CORS_ORIGINS", nil),
		SlowRequest:    api.MayDuration("SLOW_REQUEST", 2*time.Second),
		TrustedProxies: proxies,
		Swagger:        api.MayBool("SWAGGER", false),
		Profiler:       api.MayBool("PROFILER", false),
	}
}
