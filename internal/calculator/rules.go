package calculator

import (
	"mpoxdash/internal/model"
)

// 建议文案
const (
	MsgClinical     = "Investigate drivers of high CFR; ensure timely care, oxygen, and antivirals."
	MsgWorkforce    = "Surge deploy CHWs; target <500 cases per deployed CHW."
	MsgSurveillance = "Expand active sites and labs; aim for higher sites/labs per case."
	MsgAllocation   = "Advocate for additional vaccine allocation aligned to burden."
	MsgUptake       = "Address last-mile bottlenecks; microplanning and outreach to raise uptake."
	MsgMaintain     = "Maintain current response; continue monitoring trends and capacity."
)

// 预警标签
const (
	FlagHighCFR         = "High CFR"
	FlagLowCHW          = "Low CHW coverage"
	FlagLowSurveillance = "Low surveillance"
	FlagUnderAllocated  = "Under-allocated"
	FlagLowUptake       = "Low uptake"
)

// 规则阈值
const (
	thresholdCFR          = 3.0
	thresholdCHWPerCase   = 0.5
	thresholdSurvPerCase  = 0.02
	thresholdAllocPer1000 = 2000.0
	thresholdUptakePct    = 70.0
)

type rule struct {
	flag    string
	message string
	hit     func(model.CountryAggregate) bool
}

// rules 固定顺序；指标未知时不触发
var rules = []rule{
	{FlagHighCFR, MsgClinical, func(a model.CountryAggregate) bool { return above(a.CFRPercent, thresholdCFR) }},
	{FlagLowCHW, MsgWorkforce, func(a model.CountryAggregate) bool { return below(a.DeployedPerCase, thresholdCHWPerCase) }},
	{FlagLowSurveillance, MsgSurveillance, func(a model.CountryAggregate) bool { return below(a.SurveillancePerCase, thresholdSurvPerCase) }},
	{FlagUnderAllocated, MsgAllocation, func(a model.CountryAggregate) bool { return below(a.AllocationPer1000, thresholdAllocPer1000) }},
	{FlagLowUptake, MsgUptake, func(a model.CountryAggregate) bool { return below(a.UptakeRatePct, thresholdUptakePct) }},
}

// Recommend 国家建议，无规则命中时返回维持建议
func Recommend(agg model.CountryAggregate) []string {
	var out []string
	for _, r := range rules {
		if r.hit(agg) {
			out = append(out, r.message)
		}
	}
	if len(out) == 0 {
		out = append(out, MsgMaintain)
	}
	return out
}

// Flags 预警标签，顺序与建议一致
func Flags(agg model.CountryAggregate) []string {
	out := []string{}
	for _, r := range rules {
		if r.hit(agg) {
			out = append(out, r.flag)
		}
	}
	return out
}

// Recommendations 批量生成建议，保持输入顺序
func Recommendations(aggs []model.CountryAggregate) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, model.Recommendation{
			Country:       a.Country,
			PriorityScore: a.PriorityScore,
			Flags:         Flags(a),
			Messages:      Recommend(a),
		})
	}
	return out
}

func above(v *float64, threshold float64) bool {
	return v != nil && *v > threshold
}

func below(v *float64, threshold float64) bool {
	return v != nil && *v < threshold
}
