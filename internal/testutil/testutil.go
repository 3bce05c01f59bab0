// Package testutil provides shared test fixtures: synthetic range scans and
// HTTP helpers for the debug endpoints.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// FlatScan returns a scan of n samples all equal to v.
func FlatScan(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// ScanWithOpening returns a scan of n samples at base, except the indices
// from..to inclusive, which are set to open. When from > to the opening
// wraps through index 0.
func ScanWithOpening(n int, base, open float64, from, to int) []float64 {
	s := FlatScan(n, base)
	SetRange(s, open, from, to)
	return s
}

// SetRange sets s[from..to] (inclusive, wrapping when from > to) to v.
func SetRange(s []float64, v float64, from, to int) {
	n := len(s)
	if n == 0 {
		return
	}
	for i := from; ; i = (i + 1) % n {
		s[i] = v
		if i == to {
			return
		}
	}
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// LocalRequest creates a request that appears to come from localhost, which
// the tsweb debug handlers require.
func LocalRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
