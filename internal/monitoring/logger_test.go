package monitoring

import (
	"fmt"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	})

	Logf("hello %s", "world")
	if len(captured) != 1 || captured[0] != "hello world" {
		t.Errorf("captured = %v, want [hello world]", captured)
	}

	// nil resets to a no-op, not a panic
	SetLogger(nil)
	Logf("dropped")
	if len(captured) != 1 {
		t.Errorf("no-op logger still captured output: %v", captured)
	}
}

func TestWarnfPrefix(t *testing.T) {
	defer SetLogger(nil)

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	})

	Warnf("batch %d failed", 3)
	if len(captured) != 1 || !strings.HasPrefix(captured[0], "WARNING: ") {
		t.Errorf("Warnf output = %v, want WARNING: prefix", captured)
	}
}

func TestDebugfGatedByVerbose(t *testing.T) {
	defer SetLogger(nil)
	defer func() { Verbose = false }()

	var count int
	SetLogger(func(string, ...interface{}) { count++ })

	Verbose = false
	Debugf("hidden")
	Verbose = true
	Debugf("shown")

	if count != 1 {
		t.Errorf("Debugf fired %d times, want 1", count)
	}
}
