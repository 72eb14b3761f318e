package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Logf("phase mode %s won after %d strategies", "left_foot_contact", 1)
	if got != "phase mode left_foot_contact won after 1 strategies" {
		t.Errorf("unexpected log output: %q", got)
	}
}

func TestSetLoggerNilMutes(t *testing.T) {
	defer SetLogger(nil)

	SetLogger(nil)
	// Must not panic.
	Logf("dropped %d unresolved curves", 3)
}
