package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return out, errOut
}

func TestSpinnerBasic(t *testing.T) {
	_, errOut := captureOutput(t)

	s := newSpinner(context.Background(), "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(errOut.String(), "Testing...") {
		t.Errorf("spinner wrote %q", errOut.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop()")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureOutput(t)
	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	captureOutput(t)
	done := make(chan struct{})
	go func() {
		newSpinner(context.Background(), "never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	out, _ := captureOutput(t)

	s := newSpinner(context.Background(), "Testing success...")
	s.Start()
	s.StopWithSuccess("Done!")

	s = newSpinner(context.Background(), "Testing error...")
	s.Start()
	s.StopWithError("Failed!")

	got := out.String()
	if !strings.Contains(got, "Done!") || !strings.Contains(got, "Failed!") {
		t.Errorf("output = %q", got)
	}
}
