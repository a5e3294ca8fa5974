package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAuth_CountsByLabel(t *testing.T) {
	a := NewAuth(false)

	a.TokenValidation("valid")
	a.TokenValidation("valid")
	a.TokenValidation("invalid")
	a.Login("mismatch")
	a.AuthzDecision("forbidden")
	a.LoginThrottled()

	if got := testutil.ToFloat64(a.tokenValidations.WithLabelValues("valid")); got != 2 {
		t.Fatalf("valid = %v, want 2", got)
	}
	if got := testutil.ToFloat64(a.loginThrottled); got != 1 {
		t.Fatalf("throttled = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(a.Registry(), "bear_token_validations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Fatalf("series = %d, want 2", count)
	}
}

func TestAuth_NilIsNoop(t *testing.T) {
	var a *Auth
	a.TokenValidation("valid")
	a.Login("success")
	a.AuthzDecision("allowed")
	a.LoginThrottled()
}

func TestAuth_Handler(t *testing.T) {
	a := NewAuth(true)
	a.Login("success")

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`bear_logins_total{outcome="success"} 1`, "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in scrape", want)
		}
	}
}
