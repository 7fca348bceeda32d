package calculator

import (
	"sort"

	"mpoxdash/internal/model"
)

// playbooks 画像对应的行动清单
var playbooks = map[model.Persona][]string{
	model.PersonaHighBurdenLowCapacity: {
		"Immediate CHW surge and hotspot targeting",
		"Expand surveillance sites and labs; expedite sample logistics",
		"Deploy stock to high-incidence districts first",
		"Stand up clinical support: oxygen access, antivirals, IPC refreshers",
	},
	model.PersonaUnderAllocatedLowUptake: {
		"Advocate for additional doses aligned to burden",
		"Community engagement and microplanning to address hesitancy and access",
		"Weekend/evening clinics; reduce friction at point-of-care",
	},
	model.PersonaWellAllocatedLowUptake: {
		"Last-mile delivery optimization; staffing at vaccination posts",
		"Targeted outreach to low-coverage subpopulations",
		"Monitor wastage and cold-chain integrity",
	},
	model.PersonaLowBurdenWeakSurveillance: {
		"Increase sentinel sites, ensure weekly reporting cadence",
		"Strengthen lab confirmation capacity; training and QA",
		"Rapid investigation of any cluster signals",
	},
	model.PersonaBalanced: {
		"Maintain response and continue monitoring",
		"Address localized gaps surfaced in metrics (CHW, surveillance, uptake)",
	},
}

// Playbook 画像行动清单，未知画像按 Balanced 处理
func Playbook(p model.Persona) []string {
	actions, ok := playbooks[p]
	if !ok {
		actions = playbooks[model.PersonaBalanced]
	}
	return append([]string(nil), actions...)
}

// personaMedians 国家集合上各指标的中位数（忽略未知值）
type personaMedians struct {
	cases, chw, surveillance, allocation, uptake *float64
}

func computeMedians(aggs []model.CountryAggregate) personaMedians {
	collect := func(get func(model.CountryAggregate) *float64) *float64 {
		values := make([]float64, 0, len(aggs))
		for _, a := range aggs {
			if v := get(a); v != nil {
				values = append(values, *v)
			}
		}
		return median(values)
	}
	return personaMedians{
		cases:        collect(func(a model.CountryAggregate) *float64 { return a.TotalCases }),
		chw:          collect(func(a model.CountryAggregate) *float64 { return a.DeployedPerCase }),
		surveillance: collect(func(a model.CountryAggregate) *float64 { return a.SurveillancePerCase }),
		allocation:   collect(func(a model.CountryAggregate) *float64 { return a.AllocationPer1000 }),
		uptake:       collect(func(a model.CountryAggregate) *float64 { return a.UptakeRatePct }),
	}
}

// AssignPersonas 基于中位数的画像划分，按规则顺序取第一个命中
func AssignPersonas(aggs []model.CountryAggregate) []model.PersonaAssignment {
	med := computeMedians(aggs)
	out := make([]model.PersonaAssignment, 0, len(aggs))
	for _, a := range aggs {
		p := classify(a, med)
		out = append(out, model.PersonaAssignment{
			Country:  a.Country,
			Persona:  p,
			Playbook: Playbook(p),
			Stale:    a.Stale,
		})
	}
	return out
}

func classify(a model.CountryAggregate, med personaMedians) model.Persona {
	switch {
	case greater(a.TotalCases, med.cases) && less(a.DeployedPerCase, med.chw) && less(a.SurveillancePerCase, med.surveillance):
		return model.PersonaHighBurdenLowCapacity
	case less(a.AllocationPer1000, med.allocation) && less(a.UptakeRatePct, med.uptake):
		return model.PersonaUnderAllocatedLowUptake
	case greater(a.AllocationPer1000, med.allocation) && less(a.UptakeRatePct, med.uptake):
		return model.PersonaWellAllocatedLowUptake
	case less(a.TotalCases, med.cases) && less(a.SurveillancePerCase, med.surveillance):
		return model.PersonaLowBurdenWeakSurveillance
	}
	return model.PersonaBalanced
}

func greater(v, ref *float64) bool {
	return v != nil && ref != nil && *v > *ref
}

func less(v, ref *float64) bool {
	return v != nil && ref != nil && *v < *ref
}

// median 空切片返回未知
func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return model.Float(sorted[n/2])
	}
	return model.Float((sorted[n/2-1] + sorted[n/2]) / 2)
}
