package cli

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAwaitCleanupReturnsWhenCleanupFinishes(t *testing.T) {
	ran := false
	start := time.Now()
	awaitCleanup(discardLogger(), 5*time.Second, func() { ran = true })

	if !ran {
		t.Fatal("cleanup did not run")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("waited %v for an instant cleanup", elapsed)
	}
}

func TestAwaitCleanupTimesOutOnStuckCleanup(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	awaitCleanup(discardLogger(), 50*time.Millisecond, func() { <-release })

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("returned after %v, before the timeout", elapsed)
	}
}

func TestAwaitCleanupNilCleanup(t *testing.T) {
	start := time.Now()
	awaitCleanup(discardLogger(), 5*time.Second, nil)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("nil cleanup waited %v", elapsed)
	}
}
