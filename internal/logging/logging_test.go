package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

// =============================================================================
// Section 1: level parsing
// =============================================================================

func TestConfigureSetsParsedLevel(t *testing.T) {
	if err := Configure("debug", false); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", zerolog.GlobalLevel())
	}
}

func TestConfigureFallsBackToInfoOnUnknownLevel(t *testing.T) {
	if err := Configure("not-a-level", false); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected fallback to info level, got %v", zerolog.GlobalLevel())
	}
}

// =============================================================================
// Section 2: FatalExit
// =============================================================================

func TestFatalExitNilErrorReturnsZero(t *testing.T) {
	if code := FatalExit(nil); code != 0 {
		t.Errorf("expected exit code 0 for nil error, got %d", code)
	}
}

func TestFatalExitNonNilErrorReturnsOne(t *testing.T) {
	if code := FatalExit(errTest{}); code != 1 {
		t.Errorf("expected exit code 1 for non-nil error, got %d", code)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }

// =============================================================================
// Section 3: DrainErrors consumes the channel without blocking the sender
// =============================================================================

func TestDrainErrorsConsumesChannel(t *testing.T) {
	ch := make(chan error, 2)
	ch <- errTest{}
	ch <- errTest{}
	close(ch)

	done := make(chan struct{})
	go func() {
		DrainErrors(ch)
		close(done)
	}()
	<-done
}
