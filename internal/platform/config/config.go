// Package config reads typed settings from prefixed environment variables
// missing required values panic through the logger; malformed optional ones log a warning and fall back
package config

import (
	"net/url"
	"strconv"
	"time"

	"bear/internal/platform/config/raw"
	"bear/internal/platform/logger"
	pstrings "bear/internal/platform/strings"
)

// Conf is a prefixed view over the environment, e.g. New().Prefix("AUTH_")
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a child view; prefixes nest
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) get(k string) string { return raw.New().Get(c.key(k), "") }

// MustString returns key or panics when it is unset
func (c Conf) MustString(key string) string {
	v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustSecret is MustString with a minimum length; the value is never logged
func (c Conf) MustSecret(key string, minLen int) string {
	v := c.MustString(key)
	if len(v) < minLen {
		logger.Get().Panic().Str("key", c.key(key)).Int("min_len", minLen).Int("len", len(v)).Msg("secret too short")
	}
	return v
}

// MustURL returns key parsed as an absolute url or panics
func (c Conf) MustURL(key string) *url.URL {
	u, err := url.Parse(c.MustString(key))
	if err != nil || !u.IsAbs() {
		logger.Get().Panic().Str("key", c.key(key)).Msg("invalid absolute URL")
	}
	return u
}

// MayString returns key or def
func (c Conf) MayString(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool returns key as a bool or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns key as a time.Duration or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits key on commas, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	if out := pstrings.SplitCSV(c.get(key)); len(out) > 0 {
		return out
	}
	return def
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("invalid value; using default")
		return def
	}
	return v
}
