package logging_test

import (
	"context"
	"testing"
	"time"

	"portlogistics/server/logging"
	"portlogistics/server/logging/sinks"
)

func waitForEvents(t *testing.T, mem *sinks.MemorySink, n int) []logging.Event {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if events := mem.Events(); len(events) >= n {
			return events
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(mem.Events()))
	return nil
}

func TestRouterForwardsEventsAboveMinimumSeverity(t *testing.T) {
	mem := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})
	if err != nil {
		t.Fatalf("NewRouter() = %v, want nil", err)
	}
	defer router.Close(context.Background())

	router.Publish(context.Background(), logging.Event{Type: "dropped", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "kept", Severity: logging.SeverityWarn})

	events := waitForEvents(t, mem, 1)
	if len(events) != 1 || events[0].Type != "kept" {
		t.Fatalf("Events() = %+v, want exactly the warn-severity event", events)
	}
}

func TestRouterIgnoresEventsWithoutType(t *testing.T) {
	mem := sinks.NewMemorySink()
	router, err := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{{Name: "memory", Sink: mem}})
	if err != nil {
		t.Fatalf("NewRouter() = %v, want nil", err)
	}
	defer router.Close(context.Background())

	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})
	router.Publish(context.Background(), logging.Event{Type: "real", Severity: logging.SeverityError})

	events := waitForEvents(t, mem, 1)
	if len(events) != 1 || events[0].Type != "real" {
		t.Fatalf("Events() = %+v, want only the typed event", events)
	}
}

func TestRouterMergesConfiguredFieldsWithoutOverwriting(t *testing.T) {
	mem := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"service": "portlogistics", "region": "default"}

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})
	if err != nil {
		t.Fatalf("NewRouter() = %v, want nil", err)
	}
	defer router.Close(context.Background())

	router.Publish(context.Background(), logging.Event{
		Type:     "event",
		Severity: logging.SeverityInfo,
		Extra:    map[string]any{"region": "overridden"},
	})

	events := waitForEvents(t, mem, 1)
	extra := events[0].Extra
	if extra["service"] != "portlogistics" {
		t.Fatalf("Extra[service] = %v, want the router-configured field merged in", extra["service"])
	}
	if extra["region"] != "overridden" {
		t.Fatalf("Extra[region] = %v, want the event's own field to win over the configured default", extra["region"])
	}
}

func TestRouterStatsCountEventsAndDrops(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.BufferSize = 1
	router, err := logging.NewRouter(nil, cfg, nil)
	if err != nil {
		t.Fatalf("NewRouter() = %v, want nil", err)
	}
	defer router.Close(context.Background())

	for i := 0; i < 50; i++ {
		router.Publish(context.Background(), logging.Event{Type: "event", Severity: logging.SeverityInfo})
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if router.Stats().EventsTotal > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if router.Stats().EventsTotal == 0 {
		t.Fatalf("Stats().EventsTotal = 0, want at least one forwarded event")
	}
}

func TestRouterCloseStopsAcceptingEvents(t *testing.T) {
	mem := sinks.NewMemorySink()
	router, err := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{{Name: "memory", Sink: mem}})
	if err != nil {
		t.Fatalf("NewRouter() = %v, want nil", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}

	router.Publish(context.Background(), logging.Event{Type: "after-close", Severity: logging.SeverityError})
	time.Sleep(10 * time.Millisecond)
	if len(mem.Events()) != 0 {
		t.Fatalf("Events() = %v after Close, want none delivered post-shutdown", mem.Events())
	}

	// A second Close on an already-closed router blocks on the passed
	// context instead of returning immediately; a short deadline surfaces
	// that as context.DeadlineExceeded rather than hanging the test.
	secondCtx, secondCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer secondCancel()
	if err := router.Close(secondCtx); err != context.DeadlineExceeded {
		t.Fatalf("second Close() = %v, want context.DeadlineExceeded", err)
	}
}
