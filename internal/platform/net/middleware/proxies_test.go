package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bear/internal/platform/net/middleware"
)

func TestParseProxies(t *testing.T) {
	p, err := middleware.ParseProxies([]string{" 10.0.0.0/8", "192.0.2.7", "", "::1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 3 {
		t.Fatalf("got %d prefixes, want 3", len(p))
	}

	for _, bad := range []string{"10.0.0.0/33", "proxy.internal"} {
		if _, err := middleware.ParseProxies([]string{bad}); err == nil {
			t.Errorf("%q should not parse", bad)
		}
	}
}

func TestProxies_Trusts(t *testing.T) {
	p, err := middleware.ParseProxies([]string{"10.0.0.0/8", "192.0.2.7", "::1"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		remote string
		want   bool
	}{
		{"10.1.2.3:4000", true},
		{"192.0.2.7:80", true},
		{"192.0.2.8:80", false},
		{"[::1]:443", true},
		{"[::ffff:10.0.0.1]:443", true},
		{"203.0.113.9", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := p.Trusts(tt.remote); got != tt.want {
			t.Errorf("Trusts(%q) = %v, want %v", tt.remote, got, tt.want)
		}
	}
	if (middleware.Proxies)(nil).Trusts("10.0.0.1:1") {
		t.Error("an empty list trusts nobody")
	}
}

func TestRealIP(t *testing.T) {
	trusted, _ := middleware.ParseProxies([]string{"10.0.0.0/8"})

	tests := []struct {
		name   string
		remote string
		want   string
	}{
		{name: "trusted proxy", remote: "10.0.0.2:5000", want: "198.51.100.4"},
		{name: "direct client", remote: "203.0.113.9:5000", want: "203.0.113.9:5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := middleware.RealIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", "198.51.100.4")
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Fatalf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
