package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("tick %d", 3)
	if got != "tick 3" {
		t.Errorf("custom logger got %q, want %q", got, "tick 3")
	}

	got = ""
	SetLogger(nil)
	Logf("dropped")
	if got != "" {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestDebugf_SilentByDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Debugf panicked: %v", r)
		}
	}()
	Debugf("zones: %v", []int{1, 2})
}

func TestSetDebugLogger(t *testing.T) {
	original := Debugf
	defer func() { Debugf = original }()

	calls := 0
	SetDebugLogger(func(string, ...interface{}) { calls++ })
	Debugf("lidar: move forward")
	if calls != 1 {
		t.Errorf("debug logger called %d times, want 1", calls)
	}

	SetDebugLogger(nil)
	Debugf("lidar: left")
	if calls != 1 {
		t.Error("nil debug logger should silence the trace")
	}
}
