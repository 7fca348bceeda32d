package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker_ClampsAndStaysMonotonic(t *testing.T) {
	var events []ProgressEvent
	p := newProgressTracker(func(e ProgressEvent) { events = append(events, e) })

	p.step(-10, "start", "")
	p.step(40, "a", "")
	p.step(20, "late", "")
	p.step(140, "done", "")

	require.Len(t, events, 4)
	assert.Equal(t, 0, events[0].Percent)
	assert.Equal(t, 40, events[1].Percent)
	assert.Equal(t, 40, events[2].Percent, "never goes backwards")
	assert.Equal(t, "late", events[2].Stage)
	assert.Equal(t, 100, events[3].Percent)
}

func TestProgressTracker_DropsRepeatedStep(t *testing.T) {
	var events []ProgressEvent
	p := newProgressTracker(func(e ProgressEvent) { events = append(events, e) })

	p.step(30, "a", "")
	p.step(30, "a", "")
	assert.Len(t, events, 1)
}

func TestProgressTracker_RowsInterpolate(t *testing.T) {
	var events []ProgressEvent
	p := newProgressTracker(func(e ProgressEvent) { events = append(events, e) })

	total := rowReportEvery * 2
	for done := 1; done <= total; done++ {
		p.rows(20, 60, done, total, "rows", SheetFilteredData)
	}

	require.Len(t, events, 2)
	assert.Equal(t, 40, events[0].Percent)
	assert.Equal(t, rowReportEvery, events[0].Rows)
	assert.Equal(t, 60, events[1].Percent)
	assert.Equal(t, total, events[1].Total)
	assert.Equal(t, SheetFilteredData, events[1].Sheet)
}

func TestProgressTracker_NilCallback(t *testing.T) {
	p := newProgressTracker(nil)
	p.step(50, "x", "")
	p.rows(0, 100, 1, 1, "x", "")

	var nilTracker *progressTracker
	nilTracker.step(10, "x", "")
}
