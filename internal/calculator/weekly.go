package calculator

import (
	"sort"
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// cumulativeRatio 非递减步数占比达到该值时视为累计序列
const cumulativeRatio = 0.8

// growthWindow 增长率使用的周数
const growthWindow = 4

// WeeklySeries 国家周度新增病例序列，按国家、周升序
//
// 优先使用 weekly_new_cases 按周求和；缺少该列时由 confirmed_cases 推导：
// 逐日序列多数步长非递减时视为累计值并差分（负值截为 0），否则直接视为新增
func WeeklySeries(table *model.Table) []model.WeeklyPoint {
	if table == nil || !table.Schema.HasDates || !table.Schema.Has(model.FieldCountry) {
		return nil
	}

	var points []model.WeeklyPoint
	switch {
	case table.Schema.Has(model.FieldWeeklyNewCases):
		points = weeklyFromIncident(table)
	case table.Schema.Has(model.FieldConfirmedCases):
		points = weeklyFromConfirmed(table)
	default:
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Country != points[j].Country {
			return points[i].Country < points[j].Country
		}
		return points[i].WeekStart.Before(points[j].WeekStart)
	})
	return points
}

type seriesKey struct {
	country string
	day     time.Time
}

func weeklyFromIncident(table *model.Table) []model.WeeklyPoint {
	sums := make(map[seriesKey]float64)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country == "" || rec.ReportDate == nil || rec.WeeklyNewCases == nil {
			continue
		}
		sums[seriesKey{rec.Country, parser.WeekStart(*rec.ReportDate)}] += *rec.WeeklyNewCases
	}
	return toPoints(sums)
}

func weeklyFromConfirmed(table *model.Table) []model.WeeklyPoint {
	daily := make(map[string]map[time.Time]float64)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country == "" || rec.ReportDate == nil || rec.ConfirmedCases == nil {
			continue
		}
		byDay, ok := daily[rec.Country]
		if !ok {
			byDay = make(map[time.Time]float64)
			daily[rec.Country] = byDay
		}
		byDay[parser.DayOf(*rec.ReportDate)] += *rec.ConfirmedCases
	}

	sums := make(map[seriesKey]float64)
	for country, byDay := range daily {
		days := make([]time.Time, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		values := make([]float64, len(days))
		for i, d := range days {
			values[i] = byDay[d]
		}
		incident := Incidence(values)
		for i, d := range days {
			sums[seriesKey{country, parser.WeekStart(d)}] += incident[i]
		}
	}
	return toPoints(sums)
}

// Incidence 把可能为累计值的序列转换为新增序列
// 第一个点视为非递减；累计序列首点新增记为 0
func Incidence(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	nonDecreasing := 1
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] >= 0 {
			nonDecreasing++
		}
	}
	if float64(nonDecreasing)/float64(len(values)) < cumulativeRatio {
		copy(out, values)
		return out
	}

	for i := 1; i < len(values); i++ {
		if d := values[i] - values[i-1]; d > 0 {
			out[i] = d
		}
	}
	return out
}

func toPoints(sums map[seriesKey]float64) []model.WeeklyPoint {
	points := make([]model.WeeklyPoint, 0, len(sums))
	for k, v := range sums {
		points = append(points, model.WeeklyPoint{Country: k.country, WeekStart: k.day, Cases: v})
	}
	return points
}

// GrowthByCountry 近 4 周增长率，观测不足 4 周的国家不出现在结果中
func GrowthByCountry(series []model.WeeklyPoint) map[string]*float64 {
	byCountry := groupSeries(series)
	out := make(map[string]*float64, len(byCountry))
	for country, points := range byCountry {
		if g := Growth4W(points); g != nil {
			out[country] = g
		}
	}
	return out
}

// Growth4W (最后一周 - 窗口首周) / max(首周, 1)，输入需按周升序
func Growth4W(points []model.WeeklyPoint) *float64 {
	if len(points) < growthWindow {
		return nil
	}
	window := points[len(points)-growthWindow:]
	first, last := window[0].Cases, window[len(window)-1].Cases
	denom := first
	if denom < 1 {
		denom = 1
	}
	return finite((last - first) / denom)
}

// groupSeries 按国家分组，保持输入顺序
func groupSeries(series []model.WeeklyPoint) map[string][]model.WeeklyPoint {
	out := make(map[string][]model.WeeklyPoint)
	for _, p := range series {
		out[p.Country] = append(out[p.Country], p)
	}
	return out
}
