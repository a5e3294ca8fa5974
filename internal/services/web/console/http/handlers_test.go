package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bear/internal/core/identity"
	"bear/internal/modkit/httpkit"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/metrics"
	phttp "bear/internal/platform/net/http"
	"bear/internal/platform/testkit"
	"bear/internal/services/companies/domain"
	"bear/internal/services/web/view"

	"github.com/go-chi/chi/v5"
)

type fakeCompanies struct {
	byID    map[int64]domain.Company
	listErr error
}

func (f fakeCompanies) FindActiveByCode(context.Context, string) (domain.Company, error) {
	return domain.Company{}, perr.ErrNotFound
}

func (f fakeCompanies) FindByID(_ context.Context, id int64) (domain.Company, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return domain.Company{}, perr.ErrNotFound
}

func (f fakeCompanies) ListAll(context.Context) ([]domain.Company, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Company, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

var (
	acme   = domain.Company{ID: 5, Code: "acme", Name: "Acme", Active: true}
	beta   = domain.Company{ID: 9, Code: "beta", Name: "Beta", Active: true}
	seeded = fakeCompanies{byID: map[int64]domain.Company{5: acme, 9: beta}}

	admin5    = identity.Identity{Subject: "kim", AdminID: 11, Tenant: identity.Tenant(5), Role: identity.RoleAdmin}
	orphan    = identity.Identity{Subject: "lee", AdminID: 12, Tenant: identity.Tenant(77), Role: identity.RoleAdmin}
	superNone = identity.Identity{Subject: "root", AdminID: 1, Role: identity.RoleSuperAdmin}
	super9    = identity.Identity{Subject: "root", AdminID: 1, Tenant: identity.Tenant(9), Role: identity.RoleSuperAdmin}
)

func newMux(c domain.ReaderPort) stdhttp.Handler {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/admin", func(admin httpkit.Router) {
		Register(admin, Deps{Companies: c, View: view.MustNew(), Metrics: metrics.NewAuth(false)})
	})
	return r.Mux()
}

func serve(h stdhttp.Handler, method, path string, id *identity.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if id != nil {
		req = req.WithContext(identity.WithContext(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestConsole_Anonymous_RedirectsToLogin(t *testing.T) {
	h := newMux(seeded)
	for _, tc := range []struct{ method, path string }{
		{stdhttp.MethodGet, "/admin/"},
		{stdhttp.MethodGet, "/admin/dashboard"},
		{stdhttp.MethodGet, "/admin/select-company"},
		{stdhttp.MethodPost, "/admin/switch-company"},
		{stdhttp.MethodGet, "/admin/companies/5"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			testkit.MustRedirect(t, serve(h, tc.method, tc.path, nil), "/admin/login")
		})
	}
}

func TestDashboard(t *testing.T) {
	h := newMux(seeded)

	t.Run("tenant admin", func(t *testing.T) {
		rec := serve(h, stdhttp.MethodGet, "/admin/dashboard", &admin5)
		testkit.MustStatus(t, rec, stdhttp.StatusOK)
		testkit.MustContain(t, rec.Body.String(), `id="company-name">Acme<`)
		if strings.Contains(rec.Body.String(), "All companies") {
			t.Fatalf("tenant admin must not see the company list")
		}
	})
	t.Run("super admin without company selects first", func(t *testing.T) {
		testkit.MustRedirect(t, serve(h, stdhttp.MethodGet, "/admin/dashboard", &superNone), "/admin/select-company")
	})
	t.Run("super admin with company sees all", func(t *testing.T) {
		rec := serve(h, stdhttp.MethodGet, "/admin/dashboard", &super9)
		testkit.MustStatus(t, rec, stdhttp.StatusOK)
		testkit.MustContain(t, rec.Body.String(), "All companies")
		testkit.MustContain(t, rec.Body.String(), "(acme)")
	})
	t.Run("access denied notice", func(t *testing.T) {
		rec := serve(h, stdhttp.MethodGet, "/admin/dashboard?error=access_denied", &admin5)
		testkit.MustContain(t, rec.Body.String(), "You do not have access to that company.")
	})
	t.Run("missing company", func(t *testing.T) {
		testkit.MustStatus(t, serve(h, stdhttp.MethodGet, "/admin/dashboard", &orphan), stdhttp.StatusNotFound)
	})
}

func TestSelectAndSwitchCompany(t *testing.T) {
	h := newMux(seeded)

	testkit.MustRedirect(t, serve(h, stdhttp.MethodGet, "/admin/select-company", &admin5), "/admin/dashboard")

	rec := serve(h, stdhttp.MethodGet, "/admin/select-company?error=jwt_not_supported", &superNone)
	testkit.MustStatus(t, rec, stdhttp.StatusOK)
	testkit.MustContain(t, rec.Body.String(), `id="select-error"`)
	testkit.MustContain(t, rec.Body.String(), `value="9"`)

	testkit.MustRedirect(t, serve(h, stdhttp.MethodPost, "/admin/switch-company", &admin5), "/admin/dashboard")
	testkit.MustRedirect(t, serve(h, stdhttp.MethodPost, "/admin/switch-company", &superNone), "/admin/select-company?error=jwt_not_supported")
}

func TestSelectCompany_StoreFailure(t *testing.T) {
	h := newMux(fakeCompanies{listErr: errors.New("db down")})
	testkit.MustStatus(t, serve(h, stdhttp.MethodGet, "/admin/select-company", &superNone), stdhttp.StatusInternalServerError)
}

func TestCompanySettings_Authorization(t *testing.T) {
	h := newMux(seeded)

	cases := []struct {
		name     string
		path     string
		id       identity.Identity
		status   int
		location string
	}{
		{"own tenant", "/admin/companies/5", admin5, stdhttp.StatusOK, ""},
		{"other tenant", "/admin/companies/9", admin5, stdhttp.StatusSeeOther, "/admin/dashboard?error=access_denied"},
		{"super admin any tenant", "/admin/companies/5", superNone, stdhttp.StatusOK, ""},
		{"super admin unknown company", "/admin/companies/404", superNone, stdhttp.StatusNotFound, ""},
		{"bad id", "/admin/companies/abc", admin5, stdhttp.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.id
			rec := serve(h, stdhttp.MethodGet, tc.path, &id)
			if tc.location != "" {
				testkit.MustRedirect(t, rec, tc.location)
				return
			}
			testkit.MustStatus(t, rec, tc.status)
		})
	}
}

func TestRegister_PanicsWithoutDeps(t *testing.T) {
	testkit.MustPanic(t, func() { Register(phttp.AdaptChi(chi.NewRouter()), Deps{}) })
}
