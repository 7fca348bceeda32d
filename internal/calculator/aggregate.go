// Package calculator 国家维度汇总、优先级评分、规则建议及辅助分析
package calculator

import (
	"sort"
	"time"

	"mpoxdash/internal/model"
)

// DefaultStaleDays 默认过期阈值（天）
const DefaultStaleDays = 28

// Aggregate 按国家汇总，结果按优先级降序、国家名升序
func Aggregate(table *model.Table) []model.CountryAggregate {
	return AggregateAt(table, time.Now(), DefaultStaleDays)
}

// AggregateAt 同 Aggregate，指定当前时间与过期阈值
func AggregateAt(table *model.Table, now time.Time, staleDays int) []model.CountryAggregate {
	if table == nil || !table.Schema.Has(model.FieldCountry) {
		return []model.CountryAggregate{}
	}

	schema := table.Schema
	groups := make(map[string]*countryGroup)
	var order []string
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country == "" {
			continue
		}
		g, ok := groups[rec.Country]
		if !ok {
			g = &countryGroup{}
			groups[rec.Country] = g
			order = append(order, rec.Country)
		}
		g.add(schema, rec)
	}

	growth := GrowthByCountry(WeeklySeries(table))

	out := make([]model.CountryAggregate, 0, len(order))
	for _, country := range order {
		agg := groups[country].build(country)
		agg.Growth4W = growth[country]
		agg.PriorityScore = Score(agg)
		agg.Stale = isStale(agg.LastReport, now, staleDays)
		out = append(out, agg)
	}

	SortByPriority(out)
	return out
}

// SortByPriority 优先级降序，同分按国家名升序
func SortByPriority(aggs []model.CountryAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		if aggs[i].PriorityScore != aggs[j].PriorityScore {
			return aggs[i].PriorityScore > aggs[j].PriorityScore
		}
		return aggs[i].Country < aggs[j].Country
	})
}

// Find 按国家查找汇总行
func Find(aggs []model.CountryAggregate, country string) (model.CountryAggregate, bool) {
	for _, a := range aggs {
		if a.Country == country {
			return a, true
		}
	}
	return model.CountryAggregate{}, false
}

type countryGroup struct {
	rows int

	cases, deaths, suspected           accumulator
	allocated, deployed, administered  accumulator
	trained, deployedCHWs, sites, labs accumulator
	coverage                           maxAccumulator
	lastReport                         *time.Time
}

func (g *countryGroup) add(schema model.Schema, rec *model.Record) {
	g.rows++

	pairs := []struct {
		field model.Field
		acc   *accumulator
	}{
		{model.FieldConfirmedCases, &g.cases},
		{model.FieldDeaths, &g.deaths},
		{model.FieldSuspectedCases, &g.suspected},
		{model.FieldVaccineDoseAllocated, &g.allocated},
		{model.FieldVaccineDoseDeployed, &g.deployed},
		{model.FieldVaccinationsAdministered, &g.administered},
		{model.FieldTrainedCHWs, &g.trained},
		{model.FieldDeployedCHWs, &g.deployedCHWs},
		{model.FieldActiveSurveillanceSites, &g.sites},
		{model.FieldTestingLaboratories, &g.labs},
	}
	for _, p := range pairs {
		if schema.Has(p.field) {
			p.acc.add(rec.Number(p.field))
		}
	}
	if schema.Has(model.FieldVaccineCoverage) {
		g.coverage.add(rec.VaccineCoverage)
	}
	if rec.ReportDate != nil && (g.lastReport == nil || rec.ReportDate.After(*g.lastReport)) {
		d := *rec.ReportDate
		g.lastReport = &d
	}
}

func (g *countryGroup) build(country string) model.CountryAggregate {
	agg := model.CountryAggregate{
		Country:        country,
		Rows:           g.rows,
		TotalCases:     g.cases.value(),
		TotalDeaths:    g.deaths.value(),
		SuspectedCases: g.suspected.value(),
		Allocated:      g.allocated.value(),
		Deployed:       g.deployed.value(),
		Administered:   g.administered.value(),
		TrainedCHWs:    g.trained.value(),
		DeployedCHWs:   g.deployedCHWs.value(),
		Sites:          g.sites.value(),
		Labs:           g.labs.value(),
		LatestCoverage: g.coverage.value(),
		LastReport:     g.lastReport,
	}
	ApplyRatios(&agg)
	return agg
}

// ApplyRatios 根据汇总值重新计算比率与库存缺口
func ApplyRatios(agg *model.CountryAggregate) {
	agg.CFRPercent = ratio(agg.TotalDeaths, agg.TotalCases, 100)
	agg.DeployedPerCase = ratio(agg.DeployedCHWs, agg.TotalCases, 1)
	agg.TrainedPerCase = ratio(agg.TrainedCHWs, agg.TotalCases, 1)
	agg.SurveillancePerCase = ratio(sumKnown(agg.Sites, agg.Labs), agg.TotalCases, 1)
	agg.UptakeRatePct = ratio(agg.Administered, agg.Allocated, 100)
	agg.DeploymentRatePct = ratio(agg.Deployed, agg.Allocated, 100)
	agg.AdministrationRatePct = ratio(agg.Administered, agg.Deployed, 100)
	agg.AllocationPer1000 = ratio(agg.Allocated, agg.TotalCases, 1000)
	agg.UndeployedStock = diff(agg.Allocated, agg.Deployed)
	agg.InCountryNotAdministered = diff(agg.Deployed, agg.Administered)
}

func isStale(last *time.Time, now time.Time, staleDays int) bool {
	if last == nil || staleDays <= 0 {
		return false
	}
	return daysBetween(*last, now) > staleDays
}

// daysBetween 相差整天数（向下取整）
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
