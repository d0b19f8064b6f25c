package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Analyzing dependencies")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Analyzing dependencies")
	s.Start()

	cancel()

	// Give the animation goroutine time to observe the cancellation.
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after its context is cancelled")
	}
}

func TestSpinnerContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Resolving imports")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after its context times out")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Building graph")
	s.Start()

	// Repeated Stop calls must not panic or deadlock.
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Scoring nodes")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("analysis complete")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Scoring nodes")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("analysis failed")
}

func TestSpinnerBackgroundContext(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Loading document")
	s.Start()
	s.Stop()
}
