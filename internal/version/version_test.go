package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldTime })

	if got, want := String(), "dev (unknown, built unknown)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	Version, GitSHA, BuildTime = "1.2.0", "abc1234", "2026-10-18T12:00:00Z"
	if got, want := String(), "1.2.0 (abc1234, built 2026-10-18T12:00:00Z)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
