package token

import (
	"bear/internal/platform/config"
)

// DefaultIssuer is the iss claim when AUTH_JWT_ISSUER is unset
const DefaultIssuer = "bear"

// FromConfig reads AUTH_JWT_* keys; the secret is required
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("AUTH_JWT_")
	return Config{
		Secret:   c.MustSecret("SECRET", MinSecretLen),
		Lifetime: c.MayDuration("LIFETIME", DefaultLifetime),
		Issuer:   c.MayString("ISSUER", DefaultIssuer),
	}
}
