package app

import (
	"context"
	"testing"

	server "portlogistics/server"
	"portlogistics/server/logging"
)

func recordingPublisher() (logging.Publisher, func() []logging.Event) {
	var events []logging.Event
	pub := logging.PublisherFunc(func(ctx context.Context, event logging.Event) {
		events = append(events, event)
	})
	return pub, func() []logging.Event { return events }
}

func TestInvariantSinkRoutesInvariantViolationToCollisionCategory(t *testing.T) {
	pub, events := recordingPublisher()
	sink := newInvariantSink(pub, func() uint64 { return 42 })

	sink.Notify(server.InvariantViolation, "berth %d full", 3)

	got := events()
	if len(got) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(got))
	}
	if got[0].Category != logging.CategoryCollision {
		t.Fatalf("Category = %q, want %q", got[0].Category, logging.CategoryCollision)
	}
	if got[0].Tick != 42 {
		t.Fatalf("Tick = %d, want 42", got[0].Tick)
	}
	if got[0].Extra["kind"] != server.InvariantViolation.String() {
		t.Fatalf("Extra[kind] = %v, want %q", got[0].Extra["kind"], server.InvariantViolation.String())
	}
}

func TestInvariantSinkRoutesUnresolvableConflictToCollisionCategory(t *testing.T) {
	pub, events := recordingPublisher()
	sink := newInvariantSink(pub, func() uint64 { return 1 })

	sink.Notify(server.UnresolvableConflict, "robots %d and %d deadlocked", 1, 2)

	got := events()
	if len(got) != 1 || got[0].Category != logging.CategoryCollision {
		t.Fatalf("events = %+v, want one collision-category event", got)
	}
}

func TestInvariantSinkRoutesAssignmentFailToAssignmentCategory(t *testing.T) {
	pub, events := recordingPublisher()
	sink := newInvariantSink(pub, func() uint64 { return 9 })

	sink.Notify(server.AssignmentFail, "no eligible candidate for good %d", 4)

	got := events()
	if len(got) != 1 || got[0].Category != logging.CategoryAssignment {
		t.Fatalf("events = %+v, want one assignment-category event", got)
	}
}

func TestInvariantSinkFallsBackToSystemCategoryForOtherKinds(t *testing.T) {
	pub, events := recordingPublisher()
	sink := newInvariantSink(pub, func() uint64 { return 7 })

	sink.Notify(server.PathNotFound, "no path for robot %d", 5)

	got := events()
	if len(got) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(got))
	}
	if got[0].Category != logging.CategorySystem {
		t.Fatalf("Category = %q, want %q", got[0].Category, logging.CategorySystem)
	}
	if got[0].Payload != "no path for robot 5" {
		t.Fatalf("Payload = %v, want the formatted message", got[0].Payload)
	}
}

func TestInvariantSinkNilSinkIsSafeToNotify(t *testing.T) {
	var sink *invariantSink
	sink.Notify(server.InvariantViolation, "should not panic")
}

func TestInvariantSinkDefaultsTickToZeroWithoutFrameFunc(t *testing.T) {
	pub, events := recordingPublisher()
	sink := newInvariantSink(pub, nil)

	sink.Notify(server.InvariantViolation, "x")

	got := events()
	if len(got) != 1 || got[0].Tick != 0 {
		t.Fatalf("events = %+v, want Tick 0 with no frame func", got)
	}
}
