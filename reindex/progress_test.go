package reindex

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 10)

	tracker.Update(75)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100", "finish should set to total")
	assert.Contains(t, output, "100.0%", "finish should show 100%")
	assert.Contains(t, output, "\n", "finish should print newline")
	assert.Greater(t, tracker.Elapsed(), time.Duration(0), "elapsed time should be positive")
}

func TestProgressTracker_UpdateBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 10)

	tracker.Update(150) // More than total

	assert.Contains(t, buf.String(), "100/100", "should not exceed total")
}

func TestProgressTracker_Rate(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 1000, 100)

	time.Sleep(50 * time.Millisecond)
	tracker.Update(100)
	tracker.Finish()

	assert.Contains(t, buf.String(), "chunks/s", "should show rate")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 1000, 100) // Report every 100 chunks

	// First update under interval - should not print
	tracker.Update(50)
	assert.Equal(t, "", buf.String(), "should not print under interval")

	// Update to exactly interval - should print
	tracker.Update(100)
	assert.NotEmpty(t, buf.String(), "should print at interval")

	// Update beyond interval - should print again
	buf.Reset()
	tracker.Update(250)
	assert.NotEmpty(t, buf.String(), "should print beyond interval")
}
