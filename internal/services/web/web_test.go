package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"bear/internal/core/identity"
	"bear/internal/core/token"
	"bear/internal/modkit/httpkit"
	"bear/internal/modkit/module"
	"bear/internal/platform/config"
	perr "bear/internal/platform/errors"
	"bear/internal/platform/metrics"
	phttp "bear/internal/platform/net/http"
	"bear/internal/services/companies/domain"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const secret = "0123456789abcdef0123456789abcdef"

type account struct {
	password string
	id       identity.Identity
}

type fakeAuth map[string]account

func (f fakeAuth) Login(_ context.Context, username, password string) (identity.Identity, bool, error) {
	a, ok := f[username]
	if !ok || a.password != password {
		return identity.Identity{}, false, nil
	}
	return a.id, true, nil
}

type fakeCompanies map[int64]domain.Company

func (f fakeCompanies) FindActiveByCode(_ context.Context, code string) (domain.Company, error) {
	for _, c := range f {
		if c.Code == code && c.Active {
			return c, nil
		}
	}
	return domain.Company{}, perr.ErrNotFound
}

func (f fakeCompanies) FindByID(_ context.Context, id int64) (domain.Company, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return domain.Company{}, perr.ErrNotFound
}

func (f fakeCompanies) ListAll(context.Context) ([]domain.Company, error) {
	out := make([]domain.Company, 0, len(f))
	for _, c := range f {
		out = append(out, c)
	}
	return out, nil
}

var accounts = fakeAuth{
	"kim": {password: "pw-kim", id: identity.Identity{Subject: "kim", AdminID: 11, Tenant: identity.Tenant(5), Role: identity.RoleAdmin}},
}

func companies(n int) fakeCompanies {
	out := fakeCompanies{
		5: {ID: 5, Code: "acme", Name: "Acme", Active: true},
		9: {ID: 9, Code: "beta", Name: "Beta", Active: true},
	}
	for i := 100; i < 100+n; i++ {
		out[int64(i)] = domain.Company{ID: int64(i), Code: fmt.Sprintf("t%d", i), Name: fmt.Sprintf("Tenant %d", i), Active: true}
	}
	return out
}

func newCodec(t *testing.T, lifetime time.Duration) *token.Codec {
	t.Helper()
	c, err := token.New(token.Config{Secret: secret, Lifetime: lifetime, Issuer: "bear"})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func mount(t *testing.T, codec *token.Codec, m *metrics.Auth, comps fakeCompanies, extra ...func(phttp.Router)) http.Handler {
	t.Helper()
	t.Cleanup(module.Reset)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := phttp.AdaptChi(chi.NewRouter())
	Mount(ctx, r, Options{
		Config:    config.New(),
		Tokens:    codec,
		Metrics:   m,
		Auth:      accounts,
		Companies: comps,
	})
	for _, fn := range extra {
		fn(r)
	}
	return r.Mux()
}

// whoami is what the echo route reports for one request
type whoami struct {
	Tenant    string `json:"tenant"`
	AdminID   int64  `json:"adminId"`
	Subject   string `json:"subject"`
	CompanyID *int64 `json:"companyId"`
}

// echoRoute answers /{tenantKey}/whoami with the tenant and identity found on the request
func echoRoute(r phttp.Router) {
	r.Get("/{tenantKey}/whoami", func(w http.ResponseWriter, req *http.Request) {
		key, _ := httpkit.TenantKey(req)
		id, _ := identity.FromContext(req.Context())
		phttp.JSON(w, http.StatusOK, whoami{Tenant: key, AdminID: id.AdminID, Subject: id.Subject, CompanyID: id.Tenant.Ptr()})
	})
}

func postLogin(h http.Handler, remote, forwarded string) int {
	form := url.Values{"username": {"kim"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remote
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func login(t *testing.T, h http.Handler, username, password string) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("login: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "JWT-TOKEN" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login: no token cookie")
	return nil
}

func get(h http.Handler, path string, c *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if c != nil {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type meEnvelope struct {
	StatusCode int `json:"status_code"`
	Data       struct {
		AdminID   int64  `json:"adminId"`
		Subject   string `json:"subject"`
		CompanyID *int64 `json:"companyId"`
	} `json:"data"`
}

func TestConcurrentRequestsKeepIdentityAndTenantApart(t *testing.T) {
	const n = 100
	codec := newCodec(t, time.Hour)
	h := mount(t, codec, metrics.NewAuth(false), companies(n), echoRoute)

	now := time.Now()
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tenantID := int64(100 + i)
			raw, err := codec.Issue(fmt.Sprintf("admin-%d", i), int64(i+1), identity.Tenant(tenantID), identity.RoleAdmin, now)
			if err != nil {
				errs <- err
				return
			}

			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/t%d/whoami", tenantID), nil)
			req.Header.Set("Authorization", "Bearer "+raw)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var got whoami
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				errs <- fmt.Errorf("request %d: status %d decode: %v", i, rec.Code, err)
				return
			}
			switch {
			case rec.Code != http.StatusOK:
				errs <- fmt.Errorf("request %d: status %d", i, rec.Code)
			case got.Tenant != fmt.Sprintf("t%d", tenantID):
				errs <- fmt.Errorf("request %d: tenant %q", i, got.Tenant)
			case got.AdminID != int64(i+1) || got.Subject != fmt.Sprintf("admin-%d", i):
				errs <- fmt.Errorf("request %d: got admin %d %q", i, got.AdminID, got.Subject)
			case got.CompanyID == nil || *got.CompanyID != tenantID:
				errs <- fmt.Errorf("request %d: got company %v want %d", i, got.CompanyID, tenantID)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestMeReportsTheBearer(t *testing.T) {
	codec := newCodec(t, time.Hour)
	h := mount(t, codec, metrics.NewAuth(false), companies(0))
	raw, err := codec.Issue("kim", 11, identity.Tenant(5), identity.RoleAdmin, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env meEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || env.Data.AdminID != 11 || env.Data.CompanyID == nil || *env.Data.CompanyID != 5 {
		t.Fatalf("status %d data %+v", rec.Code, env.Data)
	}
}

func TestLoginThrottleIgnoresForwardedHeadersFromClients(t *testing.T) {
	t.Setenv("AUTH_LOGIN_RATE", "1")
	t.Setenv("AUTH_LOGIN_BURST", "1")
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))

	if code := postLogin(h, "198.51.100.7:40000", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first attempt: status %d", code)
	}
	for i := 2; i <= 5; i++ {
		if code := postLogin(h, "198.51.100.7:40000", fmt.Sprintf("10.0.0.%d", i)); code != http.StatusTooManyRequests {
			t.Fatalf("attempt with X-Forwarded-For 10.0.0.%d: status %d, want 429", i, code)
		}
	}
}

func TestLoginThrottleKeysOnClientsBehindTrustedProxy(t *testing.T) {
	t.Setenv("AUTH_LOGIN_RATE", "1")
	t.Setenv("AUTH_LOGIN_BURST", "1")
	t.Setenv("BEAR_API_TRUSTED_PROXIES", "10.1.0.0/16")
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))

	for i := 1; i <= 3; i++ {
		if code := postLogin(h, "10.1.0.2:40000", fmt.Sprintf("203.0.113.%d", i)); code != http.StatusOK {
			t.Fatalf("client 203.0.113.%d: status %d", i, code)
		}
	}
	if code := postLogin(h, "10.1.0.2:40000", "203.0.113.1"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat client: status %d, want 429", code)
	}
}

func TestOptionalOpsRoutes(t *testing.T) {
	t.Setenv("BEAR_API_SWAGGER", "true")
	t.Setenv("BEAR_API_PROFILER", "true")
	codec := newCodec(t, time.Hour)
	h := mount(t, codec, metrics.NewAuth(false), companies(0))

	rec := get(h, "/api/docs/doc.json", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/admin/companies/{companyID}") {
		t.Fatalf("doc.json: status %d", rec.Code)
	}

	if rec := get(h, "/api/debug/vars", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous profiler: status %d", rec.Code)
	}
	cookie := login(t, h, "kim", "pw-kim")
	if rec := get(h, "/api/debug/vars", cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("admin profiler: status %d", rec.Code)
	}

	raw, err := codec.Issue("root", 1, identity.NoTenant(), identity.RoleSuperAdmin, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("super admin profiler: status %d", rec.Code)
	}
}

func TestOptionalOpsRoutesOffByDefault(t *testing.T) {
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))
	for _, path := range []string{"/api/docs/doc.json", "/api/debug/vars"} {
		if rec := get(h, path, nil); rec.Code == http.StatusOK {
			t.Errorf("%s served while disabled", path)
		}
	}
}

func TestLoginThenTenantScopedAccess(t *testing.T) {
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))
	cookie := login(t, h, "kim", "pw-kim")

	rec := get(h, "/admin/companies/5", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("own tenant: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = get(h, "/admin/companies/9", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("foreign tenant: status %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/dashboard?error=access_denied" {
		t.Fatalf("foreign tenant: location %q", loc)
	}

	rec = get(h, "/api/v1/admin/companies/9", cookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("api foreign tenant: status %d", rec.Code)
	}

	rec = get(h, "/admin/dashboard", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("dashboard: status %d", rec.Code)
	}
}

func TestWrongPasswordStaysAnonymous(t *testing.T) {
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))

	form := url.Values{"username": {"kim"}, "password": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("unexpected cookies %v", rec.Result().Cookies())
	}
}

func TestExpiredTokenFallsBackToAnonymous(t *testing.T) {
	m := metrics.NewAuth(false)
	h := mount(t, newCodec(t, time.Millisecond), m, companies(0))
	cookie := login(t, h, "kim", "pw-kim")

	time.Sleep(10 * time.Millisecond)

	rec := get(h, "/admin/companies/5", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("console: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = get(h, "/api/v1/admin/me", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("api: status %d", rec.Code)
	}

	want := `# HELP bear_token_validations_total Requests seen by the authentication middleware by outcome
# TYPE bear_token_validations_total counter
bear_token_validations_total{state="invalid"} 2
bear_token_validations_total{state="skipped"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "bear_token_validations_total"); err != nil {
		t.Fatal(err)
	}
}

func TestOpsAndPublicRoutes(t *testing.T) {
	h := mount(t, newCodec(t, time.Hour), metrics.NewAuth(false), companies(0))

	tests := []struct {
		name     string
		path     string
		status   int
		location string
		contains string
	}{
		{name: "health", path: "/health", status: http.StatusOK},
		{name: "metrics", path: "/metrics", status: http.StatusOK, contains: "bear_token_validations_total"},
		{name: "readiness", path: "/api/v1/meta/ready", status: http.StatusOK, contains: `"skipped"`},
		{name: "modules", path: "/api/v1/meta/service", status: http.StatusOK, contains: `"console"`},
		{name: "stylesheet", path: "/css/admin.css", status: http.StatusOK},
		{name: "root", path: "/", status: http.StatusSeeOther, location: "/admin/login"},
		{name: "tenant home", path: "/acme", status: http.StatusOK, contains: "Acme"},
		{name: "unknown tenant", path: "/nobody", status: http.StatusNotFound},
		{name: "bad key", path: "/Acme", status: http.StatusNotFound},
		{name: "login form", path: "/admin/login", status: http.StatusOK},
		{name: "anonymous dashboard", path: "/admin/dashboard", status: http.StatusSeeOther, location: "/admin/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d", rec.Code, tt.status)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Fatalf("location %q, want %q", rec.Header().Get("Location"), tt.location)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Fatalf("body missing %q", tt.contains)
			}
		})
	}
}
