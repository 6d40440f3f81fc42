package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSpinner(ctx context.Context, message string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.w = &buf
	return s, &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Connecting to MongoDB...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, spinnerFrames[0])
	assert.Contains(t, out, "Connecting to MongoDB...")
	assert.True(t, strings.HasSuffix(out, "\r"), "the last write clears the line")
}

func TestSpinnerFollowsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, "Connecting to MongoDB...")
	s.Start()
	assert.False(t, s.Cancelled())

	cancel()
	assert.Eventually(t, s.Cancelled, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Connecting to MongoDB...")
	s.Start()
	s.Stop()
	s.Stop()
	assert.True(t, s.Cancelled(), "Stop releases the spinner context")
}

func TestSpinnerStopWithStatus(t *testing.T) {
	var status bytes.Buffer
	old := stdout
	stdout = &status
	t.Cleanup(func() { stdout = old })

	s, _ := testSpinner(context.Background(), "Connecting to MongoDB...")
	s.Start()
	s.StopWithError("Connection failed")
	assert.Contains(t, status.String(), iconError)
	assert.Contains(t, status.String(), "Connection failed")

	status.Reset()
	s, _ = testSpinner(context.Background(), "Publishing...")
	s.Start()
	s.StopWithSuccess("Published document (created)")
	assert.Contains(t, status.String(), iconSuccess)
	assert.Contains(t, status.String(), "Published document (created)")
}
