package calculator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAnomaliesFlagsSpike(t *testing.T) {
	series := append(weekly("Spike", 10, 11, 9, 10, 12, 10, 11, 100), weekly("Short", 1, 2, 3)...)
	series = append(series, weekly("Flat", 5, 5, 5, 5, 5, 5, 5)...)

	got, err := DetectAnomalies(context.Background(), series, AnomalyOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Flat", "Short", "Spike"}, []string{got[0].Country, got[1].Country, got[2].Country})

	flat := got[0]
	assert.Equal(t, AnomalyStatusOK, flat.Status)
	assert.Empty(t, flat.Points)

	short := got[1]
	assert.Equal(t, AnomalyStatusInsufficient, short.Status)
	assert.NotNil(t, short.Points)
	assert.Empty(t, short.Points)

	spike := got[2]
	assert.Equal(t, AnomalyStatusOK, spike.Status)
	require.Len(t, spike.Points, 1)
	p := spike.Points[0]
	assert.Equal(t, 100.0, p.Cases)
	assert.Equal(t, 89.0, p.Change)
	assert.Equal(t, "2024-02-19", p.WeekStart.Format("2006-01-02"))
	assert.Greater(t, p.LevelZ, 3.5)
}

func TestDetectAnomaliesKeepsMostRecentPoints(t *testing.T) {
	series := weekly("Noisy", 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100, 10, 100, 10, 100)

	got, err := DetectAnomalies(context.Background(), series, AnomalyOptions{MaxPoints: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Points, 2)

	drop, spike := got[0].Points[0], got[0].Points[1]
	assert.Equal(t, 10.0, drop.Cases)
	assert.Equal(t, -90.0, drop.Change)
	assert.Less(t, drop.ChangeZ, -3.5)
	assert.Equal(t, 100.0, spike.Cases)
	assert.True(t, drop.WeekStart.Before(spike.WeekStart))
}

func TestDetectAnomaliesHonoursMinWeeks(t *testing.T) {
	got, err := DetectAnomalies(context.Background(), weekly("A", 1, 1, 1, 1, 1, 1, 50), AnomalyOptions{MinWeeks: 10})
	require.NoError(t, err)
	assert.Equal(t, AnomalyStatusInsufficient, got[0].Status)
}

func TestDetectAnomaliesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DetectAnomalies(ctx, weekly("A", 1, 2, 3, 4, 5, 6), AnomalyOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRobustZFallsBackToMeanAbsoluteDeviation(t *testing.T) {
	z := robustZ([]float64{0, 0, 0, 0, 0, 10})
	assert.Zero(t, z[0])
	assert.Greater(t, z[5], 3.5)

	for _, v := range robustZ([]float64{3, 3, 3}) {
		assert.Zero(t, v)
	}
}

func TestAnomalyOptionsDefaults(t *testing.T) {
	o := AnomalyOptions{}.withDefaults()
	assert.Equal(t, AnomalyOptions{MinWeeks: 6, Threshold: 3.5, MaxPoints: 3, Concurrency: 4}, o)
	assert.Equal(t, 8, AnomalyOptions{MinWeeks: 8}.withDefaults().MinWeeks)
}
