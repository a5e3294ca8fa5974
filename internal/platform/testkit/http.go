package testkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// MustStatus asserts the recorded status code
func MustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

// MustRedirect asserts a 303 to location
func MustRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	MustStatus(t, rec, http.StatusSeeOther)
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

// Cookie returns the named cookie set on the response, or nil
func Cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
