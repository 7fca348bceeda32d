package calculator

import (
	"fmt"
	"sort"
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// 趋势判定参数
const (
	trendWindow     = 7
	trendMinDays    = 2 * trendWindow // 需严格多于该天数
	trendRiseFactor = 1.1
	trendFallFactor = 0.9
)

// Summarize 执行摘要：总量、病死率、头部国家、接种进度、近 7 天趋势及重点提示
func Summarize(table *model.Table) model.Summary {
	s := model.Summary{Trend: model.TrendInsufficient, Highlights: []string{}}
	if table == nil {
		return s
	}

	schema := table.Schema
	var cases, deaths, allocated, administered accumulator
	for i := range table.Records {
		rec := &table.Records[i]
		if schema.Has(model.FieldConfirmedCases) {
			cases.add(rec.ConfirmedCases)
		}
		if schema.Has(model.FieldDeaths) {
			deaths.add(rec.Deaths)
		}
		if schema.Has(model.FieldVaccineDoseAllocated) {
			allocated.add(rec.VaccineDoseAllocated)
		}
		if schema.Has(model.FieldVaccinationsAdministered) {
			administered.add(rec.VaccinationsAdministered)
		}
	}
	s.TotalCases = cases.value()
	s.TotalDeaths = deaths.value()
	s.TotalAllocated = allocated.value()
	s.TotalAdministered = administered.value()
	s.OverallCFR = ratio(s.TotalDeaths, s.TotalCases, 100)
	s.UptakeRatePct = ratio(s.TotalAdministered, s.TotalAllocated, 100)

	aggs := AggregateAt(table, time.Now(), 0)
	s.Countries = len(aggs)
	if s.Countries > 0 {
		s.AvgCasesPerCountry = ratio(s.TotalCases, model.Float(float64(s.Countries)), 1)
		for _, a := range aggs {
			if a.TotalCases != nil && (s.TopCountryCases == nil || *a.TotalCases > *s.TopCountryCases ||
				(*a.TotalCases == *s.TopCountryCases && a.Country < s.TopCountry)) {
				s.TopCountry = a.Country
				s.TopCountryCases = a.TotalCases
			}
		}
	}

	s.Trend = DailyTrend(table)
	s.Highlights = highlights(aggs)
	return s
}

// DailyTrend 按日汇总确诊数（缺失日期补 0），比较最近 7 天与之前 7 天的 7 日滚动均值
func DailyTrend(table *model.Table) model.Trend {
	if table == nil || !table.Schema.HasDates || !table.Schema.Has(model.FieldConfirmedCases) {
		return model.TrendInsufficient
	}

	byDay := make(map[time.Time]float64)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.ReportDate == nil || rec.ConfirmedCases == nil {
			continue
		}
		byDay[parser.DayOf(*rec.ReportDate)] += *rec.ConfirmedCases
	}
	if len(byDay) == 0 {
		return model.TrendInsufficient
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var daily []float64
	for d := days[0]; !d.After(days[len(days)-1]); d = d.AddDate(0, 0, 1) {
		daily = append(daily, byDay[d])
	}
	if len(daily) <= trendMinDays {
		return model.TrendInsufficient
	}

	rolling := make([]*float64, len(daily))
	var window float64
	for i, v := range daily {
		window += v
		if i >= trendWindow {
			window -= daily[i-trendWindow]
		}
		if i >= trendWindow-1 {
			rolling[i] = model.Float(window / trendWindow)
		}
	}

	n := len(rolling)
	recent := meanKnown(rolling[n-trendWindow:])
	previous := meanKnown(rolling[n-2*trendWindow : n-trendWindow])
	if recent == nil || previous == nil {
		return model.TrendInsufficient
	}
	switch {
	case *recent > *previous*trendRiseFactor:
		return model.TrendIncreasing
	case *recent < *previous*trendFallFactor:
		return model.TrendDecreasing
	}
	return model.TrendStable
}

func meanKnown(values []*float64) *float64 {
	var acc accumulator
	n := 0
	for _, v := range values {
		if v != nil {
			acc.add(v)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return model.Float(acc.sum / float64(n))
}

// highlights 按临床、疫苗、人力顺序输出存在问题的国家数
func highlights(aggs []model.CountryAggregate) []string {
	var highCFR, lowUptake, lowCHW int
	for _, a := range aggs {
		if above(a.CFRPercent, thresholdCFR) {
			highCFR++
		}
		if below(a.UptakeRatePct, thresholdUptakePct) {
			lowUptake++
		}
		if below(a.DeployedPerCase, thresholdCHWPerCase) {
			lowCHW++
		}
	}

	out := []string{}
	if highCFR > 0 {
		out = append(out, fmt.Sprintf("Immediate clinical intervention needed in %d countries with CFR >3%%", highCFR))
	}
	if lowUptake > 0 {
		out = append(out, fmt.Sprintf("Vaccine rollout optimization needed in %d countries", lowUptake))
	}
	if lowCHW > 0 {
		out = append(out, fmt.Sprintf("CHW deployment expansion needed in %d countries", lowCHW))
	}
	return out
}
