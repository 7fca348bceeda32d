package calculator

import (
	"math"

	"mpoxdash/internal/model"
)

// 评分权重，合计 100
const (
	weightCases        = 25.0
	weightCFR          = 25.0
	weightWorkforce    = 15.0
	weightSurveillance = 15.0
	weightEquity       = 10.0
	weightGrowth       = 10.0
)

// Score 优先级评分 [0, 100]
func Score(agg model.CountryAggregate) float64 {
	return Breakdown(agg).Total
}

// Breakdown 六个分项及截断后的总分，未知指标贡献 0
func Breakdown(agg model.CountryAggregate) model.ScoreBreakdown {
	b := model.ScoreBreakdown{
		CaseBurden:       math.Min(valueOr(agg.TotalCases, 0)/10000, 1) * weightCases,
		CFRBurden:        math.Min(valueOr(agg.CFRPercent, 0)/5, 1) * weightCFR,
		WorkforceGap:     capacityGap(agg.DeployedPerCase, weightWorkforce),
		SurveillanceGap:  capacityGap(agg.SurveillancePerCase, weightSurveillance),
		AllocationEquity: allocationEquity(agg.AllocationPer1000),
		GrowthTrend:      growthTrend(agg.Growth4W),
	}
	sum := b.CaseBurden + b.CFRBurden + b.WorkforceGap + b.SurveillanceGap + b.AllocationEquity + b.GrowthTrend
	b.Total = clamp(sum, 0, 100)
	return b
}

// capacityGap 每病例资源越少分数越高，倒数上限 10
func capacityGap(perCase *float64, weight float64) float64 {
	if perCase == nil {
		return 0
	}
	inv := 1 / math.Max(*perCase, 1e-6)
	return math.Min(inv, 10) / 10 * weight
}

// allocationEquity 每千病例分配量低于 1500 剂开始计分
func allocationEquity(per1000 *float64) float64 {
	if per1000 == nil {
		return 0
	}
	return math.Max(0, 1.5-math.Min(*per1000/1000, 3)) / 1.5 * weightEquity
}

func growthTrend(g *float64) float64 {
	if g == nil {
		return 0
	}
	return clamp(*g, 0, 1) * weightGrowth
}
