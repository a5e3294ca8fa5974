package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bear/internal/core/identity"
	"bear/internal/modkit/repokit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/store"
	"bear/internal/platform/testkit"
	"bear/internal/services/admins/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	hashOnce sync.Once
	hash     string
)

// hashFor caches one MinCost hash of "s3cret" across tests
func hashFor(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt: %v", err)
		}
		hash = string(h)
	})
	return hash
}

type fakeStore struct {
	creds    map[string]domain.Credential
	findErr  error
	touchErr error
	touched  []time.Time
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (domain.Credential, error) {
	if f.findErr != nil {
		return domain.Credential{}, f.findErr
	}
	c, ok := f.creds[username]
	if !ok {
		return domain.Credential{}, perr.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) TouchLastLogin(_ context.Context, _ int64, at time.Time) error {
	f.touched = append(f.touched, at)
	return f.touchErr
}

type nopQ struct{}

func (nopQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }

func newSvc(st *fakeStore, opt Options) *Svc {
	return New(nopQ{}, repokit.BindFunc[domain.CredentialStore](func(repokit.Queryer) domain.CredentialStore { return st }), opt)
}

func TestNew_PanicsOnNil(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, Options{}) })
	testkit.MustPanic(t, func() { New(nopQ{}, nil, Options{}) })
}

func TestLogin(t *testing.T) {
	h := hashFor(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		creds   map[string]domain.Credential
		user    string
		pass    string
		wantOK  bool
		wantErr bool
		want    identity.Identity
	}{
		{
			name:   "tenant admin",
			creds:  map[string]domain.Credential{"alice": {ID: 42, Username: "alice", PasswordHash: h, Role: identity.RoleAdmin, Company: identity.Tenant(5)}},
			user:   "alice",
			pass:   "s3cret",
			wantOK: true,
			want:   identity.Identity{Subject: "alice", AdminID: 42, Tenant: identity.Tenant(5), Role: identity.RoleAdmin},
		},
		{
			name:   "super admin without tenant",
			creds:  map[string]domain.Credential{"root": {ID: 1, Username: "root", PasswordHash: h, Role: identity.RoleSuperAdmin}},
			user:   " root ",
			pass:   "s3cret",
			wantOK: true,
			want:   identity.Identity{Subject: "root", AdminID: 1, Role: identity.RoleSuperAdmin},
		},
		{
			name:  "wrong password",
			creds: map[string]domain.Credential{"alice": {ID: 42, Username: "alice", PasswordHash: h, Role: identity.RoleAdmin, Company: identity.Tenant(5)}},
			user:  "alice",
			pass:  "nope",
		},
		{
			name:  "unknown user",
			creds: map[string]domain.Credential{},
			user:  "mallory",
			pass:  "s3cret",
		},
		{
			name:  "unreadable hash",
			creds: map[string]domain.Credential{"alice": {ID: 42, Username: "alice", PasswordHash: "plaintext", Role: identity.RoleAdmin, Company: identity.Tenant(5)}},
			user:  "alice",
			pass:  "plaintext",
		},
		{
			name:  "blank input",
			creds: map[string]domain.Credential{},
			user:  "  ",
			pass:  "",
		},
		{
			name:    "admin without company",
			creds:   map[string]domain.Credential{"orphan": {ID: 7, Username: "orphan", PasswordHash: h, Role: identity.RoleAdmin}},
			user:    "orphan",
			pass:    "s3cret",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeStore{creds: tc.creds}
			s := newSvc(st, Options{Clock: func() time.Time { return at }})

			id, ok, err := s.Login(context.Background(), tc.user, tc.pass)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if id != tc.want {
				t.Fatalf("identity = %+v, want %+v", id, tc.want)
			}
			if tc.wantOK && (len(st.touched) != 1 || !st.touched[0].Equal(at)) {
				t.Fatalf("last login not stamped: %v", st.touched)
			}
			if !tc.wantOK && len(st.touched) != 0 {
				t.Fatal("failed logins must not stamp last login")
			}
		})
	}
}

func TestLogin_StoreFailureIsError(t *testing.T) {
	boom := perr.Wrap(errors.New("conn reset"), perr.ErrorCodeDB, "select admin by username")
	s := newSvc(&fakeStore{findErr: boom}, Options{})

	_, ok, err := s.Login(context.Background(), "alice", "s3cret")
	if ok || !errors.Is(err, boom) {
		t.Fatalf("want store error, got ok=%v err=%v", ok, err)
	}
}

func TestLogin_TouchFailureDoesNotFailLogin(t *testing.T) {
	st := &fakeStore{
		creds:    map[string]domain.Credential{"alice": {ID: 42, Username: "alice", PasswordHash: hashFor(t), Role: identity.RoleAdmin, Company: identity.Tenant(5)}},
		touchErr: errors.New("read only transaction"),
	}
	s := newSvc(st, Options{Clock: func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }})

	id, ok, err := s.Login(context.Background(), "alice", "s3cret")
	if err != nil || !ok || id.AdminID != 42 {
		t.Fatalf("login should succeed: %+v %v %v", id, ok, err)
	}
}

func TestLogin_EqualizeTimingComparesDummy(t *testing.T) {
	s := newSvc(&fakeStore{creds: map[string]domain.Credential{}}, Options{EqualizeTiming: true})
	if len(s.dummy) == 0 {
		t.Fatal("a dummy hash should be minted when none is given")
	}
	if _, err := bcrypt.Cost(s.dummy); err != nil {
		t.Fatalf("dummy hash is not bcrypt: %v", err)
	}

	_, ok, err := s.Login(context.Background(), "ghost", "whatever")
	if ok || err != nil {
		t.Fatalf("unknown user should be a plain mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestLogin_EqualizeOffSkipsMint(t *testing.T) {
	s := newSvc(&fakeStore{}, Options{})
	if s.dummy != nil {
		t.Fatal("no dummy hash without EqualizeTiming")
	}
}
