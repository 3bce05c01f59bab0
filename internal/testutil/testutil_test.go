package testutil

import (
	"net/http"
	"testing"
)

func TestFlatScan(t *testing.T) {
	t.Parallel()

	s := FlatScan(4, 2.5)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	for i, v := range s {
		if v != 2.5 {
			t.Errorf("s[%d] = %f, want 2.5", i, v)
		}
	}
}

func TestScanWithOpening(t *testing.T) {
	t.Parallel()

	s := ScanWithOpening(10, 1, 9, 2, 4)
	want := []float64{1, 1, 9, 9, 9, 1, 1, 1, 1, 1}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("s[%d] = %f, want %f", i, s[i], want[i])
		}
	}
}

func TestScanWithOpening_Wraps(t *testing.T) {
	t.Parallel()

	s := ScanWithOpening(10, 1, 9, 8, 1)
	want := []float64{9, 9, 1, 1, 1, 1, 1, 1, 9, 9}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("s[%d] = %f, want %f", i, s[i], want[i])
		}
	}
}

func TestSetRange_Empty(t *testing.T) {
	t.Parallel()
	SetRange(nil, 1, 0, 0)
}

func TestAssertStatusCode(t *testing.T) {
	t.Parallel()
	AssertStatusCode(t, http.StatusOK, http.StatusOK)
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()

	req := NewTestRequest(http.MethodGet, "/debug/nav-state")
	if req.Method != http.MethodGet || req.URL.Path != "/debug/nav-state" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	if rec := NewTestRecorder(); rec.Code != http.StatusOK {
		t.Errorf("recorder default code = %d", rec.Code)
	}
}

func TestLocalRequest(t *testing.T) {
	t.Parallel()

	req := LocalRequest(http.MethodPost, "/debug/nav-state", nil)
	if req.RemoteAddr != "127.0.0.1:12345" {
		t.Errorf("RemoteAddr = %q, want loopback", req.RemoteAddr)
	}
	if req.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", req.Method)
	}
}
