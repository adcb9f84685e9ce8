package breaker

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"pet-adoption/internal/platform/logger"

	"github.com/sony/gobreaker"
)

func TestNew_TripsAfterThreeFailures(t *testing.T) {
	var buf bytes.Buffer
	cb := New("blob-s3", logger.New(logger.Options{Level: logger.Warn, Format: logger.FormatJSON, Output: &buf}))
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i+1, err)
		}
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (interface{}, error) { called = true; return nil, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) || called {
		t.Fatalf("open breaker must short-circuit, err=%v called=%v", err, called)
	}

	out := buf.String()
	if !strings.Contains(out, "circuit breaker state change") || !strings.Contains(out, `"breaker":"blob-s3"`) {
		t.Fatalf("state change not logged: %s", out)
	}
}

func TestNew_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := New("amqp", nil)
	boom := errors.New("boom")

	for _, fail := range []bool{true, true, false, true, true} {
		_, _ = cb.Execute(func() (interface{}, error) {
			if fail {
				return nil, boom
			}
			return nil, nil
		})
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed, got %s", cb.State())
	}
}

func TestTimeoutFor(t *testing.T) {
	cases := map[string]time.Duration{
		"identity":   5 * time.Second,
		"blob-minio": 10 * time.Second,
		"blob-s3":    10 * time.Second,
		"amqp":       30 * time.Second,
	}
	for name, want := range cases {
		if got := timeoutFor(name); got != want {
			t.Fatalf("%s: expected %s, got %s", name, want, got)
		}
	}
}
