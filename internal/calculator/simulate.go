package calculator

import (
	"errors"
	"fmt"
	"math"

	"mpoxdash/internal/model"
)

// ErrInvalidScenario 情景参数非法
var ErrInvalidScenario = errors.New("invalid scenario")

// Simulate 假设情景：追加剂量、按比例增加社区卫生员、追加实验室
// 比率分母使用 max(总病例, 1)；基线未知且情景未补充的指标保持未知
func Simulate(agg model.CountryAggregate, sc model.Scenario) (model.SimulationResult, error) {
	inputs := []struct {
		name  string
		value float64
	}{
		{"addDoses", sc.AddDoses},
		{"increaseChwPct", sc.IncreaseCHWPct},
		{"addLabs", sc.AddLabs},
	}
	for _, in := range inputs {
		if in.value < 0 || math.IsNaN(in.value) || math.IsInf(in.value, 0) {
			return model.SimulationResult{}, fmt.Errorf("%s=%v: %w", in.name, in.value, ErrInvalidScenario)
		}
	}

	projected := agg
	if agg.Allocated != nil || sc.AddDoses > 0 {
		projected.Allocated = model.Float(valueOr(agg.Allocated, 0) + sc.AddDoses)
	}
	if agg.DeployedCHWs != nil {
		projected.DeployedCHWs = model.Float(*agg.DeployedCHWs * (1 + sc.IncreaseCHWPct/100))
	}
	if agg.Labs != nil || sc.AddLabs > 0 {
		projected.Labs = model.Float(valueOr(agg.Labs, 0) + sc.AddLabs)
	}

	denom := model.Float(math.Max(valueOr(agg.TotalCases, 0), 1))
	projected.DeployedPerCase = ratio(projected.DeployedCHWs, denom, 1)
	projected.SurveillancePerCase = ratio(sumKnown(projected.Sites, projected.Labs), denom, 1)
	projected.AllocationPer1000 = ratio(projected.Allocated, denom, 1000)
	projected.UptakeRatePct = ratio(projected.Administered, projected.Allocated, 100)
	projected.UndeployedStock = diff(projected.Allocated, projected.Deployed)

	base := Score(agg)
	projected.PriorityScore = Score(projected)
	return model.SimulationResult{
		Country:        agg.Country,
		Scenario:       sc,
		BaseScore:      base,
		ProjectedScore: projected.PriorityScore,
		Delta:          projected.PriorityScore - base,
		Projected:      projected,
	}, nil
}
