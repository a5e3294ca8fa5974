// Package service verifies admin credentials
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"

	"bear/internal/core/identity"
	"bear/internal/modkit/repokit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/logger"
	ptime "bear/internal/platform/time"
	"bear/internal/services/admins/domain"

	"golang.org/x/crypto/bcrypt"
)

// Options tunes the verifier
type Options struct {
	// Clock stamps last_login_at, nil means the UTC wall clock
	Clock ptime.Clock

	// EqualizeTiming runs a bcrypt compare against DummyHash for unknown usernames
	// so a miss costs about as much as a wrong password
	EqualizeTiming bool

	// DummyHash is compared when EqualizeTiming is on; a random one is minted when empty
	DummyHash []byte
}

// Svc implements domain.AuthenticatorPort
type Svc struct {
	db     repokit.Queryer
	binder repokit.Binder[domain.CredentialStore]
	clock  ptime.Clock

	equalize bool
	dummy    []byte
}

var _ domain.AuthenticatorPort = (*Svc)(nil)

// New constructs the credential verifier
func New(db repokit.Queryer, binder repokit.Binder[domain.CredentialStore], opt Options) *Svc {
	if db == nil {
		panic("admins.Service requires a non-nil Queryer")
	}
	if binder == nil {
		panic("admins.Service requires a non-nil CredentialStore binder")
	}
	s := &Svc{
		db:       db,
		binder:   binder,
		clock:    opt.Clock.Or(),
		equalize: opt.EqualizeTiming,
		dummy:    opt.DummyHash,
	}
	if s.equalize && len(s.dummy) == 0 {
		s.dummy = mintDummyHash()
	}
	return s
}

// mintDummyHash hashes random bytes nobody knows at the default cost
func mintDummyHash() []byte {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	h, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		panic("admins.Service: mint dummy hash: " + err.Error())
	}
	return h
}

// Login checks username and password against the credential store
// a mismatch returns ok=false and a nil error; store failures return the error
func (s *Svc) Login(ctx context.Context, username, password string) (identity.Identity, bool, error) {
	log := logger.C(ctx)
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return identity.Identity{}, false, nil
	}

	repo := s.binder.Bind(s.db)
	cred, err := repo.FindByUsername(ctx, username)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		if s.equalize {
			_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		}
		log.Info().Err(domain.ErrCredentialMismatch).Str("reason", "unknown_user").Msg("login rejected")
		return identity.Identity{}, false, nil
	case err != nil:
		return identity.Identity{}, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		reason := "bad_password"
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			// unreadable hash in the row; still a mismatch for the caller
			reason = "bad_hash"
			log.Error().Err(err).Int64("admin_id", cred.ID).Msg("stored password hash is unusable")
		}
		log.Info().Err(domain.ErrCredentialMismatch).Int64("admin_id", cred.ID).Str("reason", reason).Msg("login rejected")
		return identity.Identity{}, false, nil
	}

	id := cred.Identity()
	if !id.Consistent() {
		return identity.Identity{}, false, perr.Newf(perr.ErrorCodeValidation, "admin %d has role %s without a company", cred.ID, cred.Role)
	}

	if err := repo.TouchLastLogin(ctx, cred.ID, s.clock()); err != nil {
		log.Warn().Err(err).Int64("admin_id", cred.ID).Msg("failed to record last login")
	}
	return id, true, nil
}
