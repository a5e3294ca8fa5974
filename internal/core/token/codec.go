// Package token issues and validates the signed admin identity token
package token

import (
	"encoding/json"
	stderrs "errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bear/internal/core/identity"
	perr "bear/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLen is the shortest accepted HS256 secret in bytes
const MinSecretLen = 32

// DefaultLifetime applies when Config.Lifetime is zero
const DefaultLifetime = 24 * time.Hour

var (
	// ErrInvalidToken is matched by every Validate failure
	ErrInvalidToken = stderrs.New("invalid token")

	// ErrExpired marks a token at or past its expiry
	ErrExpired = stderrs.New("token expired")

	// ErrSignature marks a signature or signing method mismatch
	ErrSignature = stderrs.New("token signature rejected")

	// ErrMalformed marks a token whose structure or claims cannot be used
	ErrMalformed = stderrs.New("token malformed")
)

// Config is read once at startup
type Config struct {
	Secret string
	// Lifetime is added to the issue time; iat and exp are whole seconds,
	// so exp-iat equals Lifetime only when Lifetime is a whole number of seconds
	Lifetime time.Duration
	Issuer   string
}

// Option tweaks a Codec at construction
type Option func(*Codec)

// WithClock replaces the clock used by Validate
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec signs and verifies tokens with a symmetric key
// it is immutable after New and safe for concurrent use
type Codec struct {
	key      []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
	parser   *jwt.Parser
}

// New validates cfg and builds a Codec
func New(cfg Config, opts ...Option) (*Codec, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, perr.InvalidArgf("token secret must be at least %d bytes", MinSecretLen)
	}
	if cfg.Lifetime < 0 {
		return nil, perr.InvalidArgf("token lifetime must not be negative")
	}
	c := &Codec{
		key:      []byte(cfg.Secret),
		lifetime: cfg.Lifetime,
		issuer:   strings.TrimSpace(cfg.Issuer),
		now:      time.Now,
	}
	if c.lifetime == 0 {
		c.lifetime = DefaultLifetime
	}
	for _, o := range opts {
		o(c)
	}

	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithJSONNumber(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		popts = append(popts, jwt.WithIssuer(c.issuer))
	}
	c.parser = jwt.NewParser(popts...)
	return c, nil
}

// Lifetime returns the configured token lifetime
func (c *Codec) Lifetime() time.Duration { return c.lifetime }

// claims is the wire shape of the token payload
type claims struct {
	AdminID   numericID  `json:"adminId"`
	CompanyID *numericID `json:"companyId,omitempty"`
	Role      string     `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given admin, valid from now for the configured lifetime
func (c *Codec) Issue(subject string, adminID int64, tenant identity.TenantRef, role identity.Role, now time.Time) (string, error) {
	in := identity.Identity{Subject: subject, AdminID: adminID, Tenant: tenant, Role: role}
	if !in.Consistent() {
		return "", perr.InvalidArgf("cannot issue token for role %q with tenant %s", role, tenant)
	}

	cl := claims{
		AdminID: numericID{v: adminID, set: true},
		Role:    string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}
	if id, ok := tenant.Get(); ok {
		cl.CompanyID = &numericID{v: id, set: true}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "sign token")
	}
	return signed, nil
}

// Validate verifies raw and returns the identity it carries
// every failure matches ErrInvalidToken; the wrapped reason is for logs only
func (c *Codec) Validate(raw string) (identity.Identity, error) {
	var cl claims
	_, err := c.parser.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return identity.Identity{}, invalid(classify(err), err)
	}

	role, ok := identity.ParseRole(cl.Role)
	if !ok {
		return identity.Identity{}, invalid(ErrMalformed, fmt.Errorf("unknown role %q", cl.Role))
	}
	if !cl.AdminID.set {
		return identity.Identity{}, invalid(ErrMalformed, stderrs.New("missing adminId"))
	}

	out := identity.Identity{
		Subject: cl.Subject,
		AdminID: cl.AdminID.v,
		Role:    role,
	}
	if cl.CompanyID != nil && cl.CompanyID.set {
		out.Tenant = identity.Tenant(cl.CompanyID.v)
	}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	out.ExpiresAt = cl.ExpiresAt.Time

	if !out.Consistent() {
		return identity.Identity{}, invalid(ErrMalformed, stderrs.New("role and tenant binding disagree"))
	}
	return out, nil
}

// classify maps a jwt parse error onto one of our reasons
func classify(err error) error {
	switch {
	case stderrs.Is(err, jwt.ErrTokenExpired), stderrs.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case stderrs.Is(err, jwt.ErrTokenSignatureInvalid), stderrs.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignature
	default:
		return ErrMalformed
	}
}

func invalid(reason, cause error) error {
	return perr.Wrap(fmt.Errorf("%w: %w: %w", ErrInvalidToken, reason, cause), perr.ErrorCodeInvalidToken, "token rejected")
}

// Reason returns the classified failure for logs, or nil
func Reason(err error) error {
	for _, r := range []error{ErrExpired, ErrSignature, ErrMalformed} {
		if stderrs.Is(err, r) {
			return r
		}
	}
	return nil
}

// numericID decodes an integer claim sent as a 32 or 64 bit number
// integral floats within the exact float64 range are accepted too
type numericID struct {
	v   int64
	set bool
}

const maxExactFloat = 1 << 53

func (n numericID) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, n.v, 10), nil
}

func (n *numericID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = numericID{}
		return nil
	}
	num := json.Number(s)
	if v, err := num.Int64(); err == nil {
		*n = numericID{v: v, set: true}
		return nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return fmt.Errorf("claim %s is not an integer id", s)
	}
	*n = numericID{v: int64(f), set: true}
	return nil
}
