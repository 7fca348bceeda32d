package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mpoxdash/internal/model"
)

func TestRecommendFixedOrder(t *testing.T) {
	agg := model.CountryAggregate{
		CFRPercent:          f(4),
		DeployedPerCase:     f(0.3),
		SurveillancePerCase: f(0.03),
		AllocationPer1000:   f(3000),
		UptakeRatePct:       f(60),
	}

	assert.Equal(t, []string{MsgClinical, MsgWorkforce, MsgUptake}, Recommend(agg))
	assert.Equal(t, []string{FlagHighCFR, FlagLowCHW, FlagLowUptake}, Flags(agg))
}

func TestFlagsFollowRecommendationOrder(t *testing.T) {
	agg := model.CountryAggregate{
		CFRPercent:          f(5),
		DeployedPerCase:     f(0.1),
		SurveillancePerCase: f(0.01),
		AllocationPer1000:   f(100),
		UptakeRatePct:       f(10),
	}

	assert.Equal(t, []string{
		FlagHighCFR, FlagLowCHW, FlagLowSurveillance, FlagUnderAllocated, FlagLowUptake,
	}, Flags(agg))
	assert.Equal(t, []string{
		MsgClinical, MsgWorkforce, MsgSurveillance, MsgAllocation, MsgUptake,
	}, Recommend(agg))
}

func TestRecommendMaintainWhenNothingTriggers(t *testing.T) {
	agg := model.CountryAggregate{
		CFRPercent:          f(3),
		DeployedPerCase:     f(0.5),
		SurveillancePerCase: f(0.02),
		AllocationPer1000:   f(2000),
		UptakeRatePct:       f(70),
	}
	assert.Equal(t, []string{MsgMaintain}, Recommend(agg))
	assert.Empty(t, Flags(agg))
}

func TestRecommendUnknownNeverTriggers(t *testing.T) {
	assert.Equal(t, []string{MsgMaintain}, Recommend(model.CountryAggregate{}))
	assert.NotNil(t, Flags(model.CountryAggregate{}))
	assert.Empty(t, Flags(model.CountryAggregate{}))
}

func TestRecommendationsKeepInputOrder(t *testing.T) {
	aggs := []model.CountryAggregate{
		{Country: "B", PriorityScore: 80, CFRPercent: f(10)},
		{Country: "A", PriorityScore: 20},
	}
	recs := Recommendations(aggs)

	assert.Len(t, recs, 2)
	assert.Equal(t, "B", recs[0].Country)
	assert.Equal(t, 80.0, recs[0].PriorityScore)
	assert.Equal(t, []string{MsgClinical}, recs[0].Messages)
	assert.Equal(t, []string{MsgMaintain}, recs[1].Messages)
}
