package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxdash/internal/model"
)

func exampleAggregate() model.CountryAggregate {
	return model.CountryAggregate{
		Country:             "Exampleland",
		TotalCases:          f(10000),
		TotalDeaths:         f(500),
		CFRPercent:          f(5),
		DeployedPerCase:     f(2),
		SurveillancePerCase: f(0.05),
		AllocationPer1000:   f(1500),
		Growth4W:            f(0.2),
	}
}

func TestScoreWorkedExample(t *testing.T) {
	agg := exampleAggregate()

	b := Breakdown(agg)
	assert.InDelta(t, 25, b.CaseBurden, 1e-9)
	assert.InDelta(t, 25, b.CFRBurden, 1e-9)
	assert.InDelta(t, 0.75, b.WorkforceGap, 1e-9)
	assert.InDelta(t, 15, b.SurveillanceGap, 1e-9)
	assert.InDelta(t, 0, b.AllocationEquity, 1e-9)
	assert.InDelta(t, 2, b.GrowthTrend, 1e-9)
	assert.InDelta(t, 67.75, b.Total, 1e-9)
	assert.InDelta(t, 67.75, Score(agg), 1e-9)
}

func TestScoreUnknownMetricsContributeNothing(t *testing.T) {
	assert.Equal(t, 0.0, Score(model.CountryAggregate{Country: "Nowhere"}))

	b := Breakdown(model.CountryAggregate{TotalCases: f(5000)})
	assert.InDelta(t, 12.5, b.CaseBurden, 1e-9)
	assert.Zero(t, b.WorkforceGap)
	assert.Zero(t, b.SurveillanceGap)
	assert.Zero(t, b.AllocationEquity)
	assert.Zero(t, b.GrowthTrend)
}

func TestScoreBounded(t *testing.T) {
	values := []float64{-1e9, -1, 0, 1e-9, 0.3, 1, 7, 1e4, 1e12}
	for _, v := range values {
		agg := model.CountryAggregate{
			TotalCases:          f(v),
			CFRPercent:          f(v),
			DeployedPerCase:     f(v),
			SurveillancePerCase: f(v),
			AllocationPer1000:   f(v),
			Growth4W:            f(v),
		}
		s := Score(agg)
		require.GreaterOrEqual(t, s, 0.0, "value %v", v)
		require.LessOrEqual(t, s, 100.0, "value %v", v)
	}
}

func TestScoreMonotonicPerComponent(t *testing.T) {
	base := exampleAggregate()

	prev := -1.0
	for _, cfr := range []float64{0, 0.5, 1, 2, 3, 4, 4.9, 5, 8} {
		agg := base
		agg.CFRPercent = f(cfr)
		s := Score(agg)
		require.GreaterOrEqual(t, s, prev, "cfr %v", cfr)
		prev = s
	}

	prev = 101.0
	for _, dpc := range []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 10} {
		agg := base
		agg.DeployedPerCase = f(dpc)
		s := Score(agg)
		require.LessOrEqual(t, s, prev, "deployed per case %v", dpc)
		prev = s
	}
}

func TestAllocationEquityShape(t *testing.T) {
	assert.InDelta(t, 10, allocationEquity(f(0)), 1e-9)
	assert.InDelta(t, 10.0/3, allocationEquity(f(1000)), 1e-9)
	assert.InDelta(t, 0, allocationEquity(f(1500)), 1e-9)
	assert.InDelta(t, 0, allocationEquity(f(9000)), 1e-9)
	assert.Zero(t, allocationEquity(nil))
}
