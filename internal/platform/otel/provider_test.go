package otel

import (
	"context"
	"strings"
	"testing"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("FAIRDICE_OTEL_ENDPOINT", "")
	t.Setenv("FAIRDICE_OTEL_ENABLED", "true")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("FAIRDICE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("FAIRDICE_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_RejectsMalformedEnv(t *testing.T) {
	t.Setenv("FAIRDICE_OTEL_ENABLED", "maybe")

	shutdown, err := Setup(context.Background(), "test-service")
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetup_ShutdownFlushesCleanly(t *testing.T) {
	// Non-routable address so nothing is exported.
	t.Setenv("FAIRDICE_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("FAIRDICE_OTEL_ENABLED", "true")

	shutdown, err := Setup(context.Background(), "flush-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("FAIRDICE_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "noop-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "ParentBased"},
	}
	for _, tt := range tests {
		if got := sampler(tt.ratio).Description(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want prefix %q", tt.ratio, got, tt.want)
		}
	}
}
