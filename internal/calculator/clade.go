package calculator

import (
	"sort"
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// 分支分析的默认展示条数
const (
	TopCladeCFR      = 10
	TopUnknownClades = 12
)

// CladeAnalysis 分支分布、国家×分支病死率排名、分支未知国家与分支趋势
func CladeAnalysis(table *model.Table) model.CladeReport {
	return model.CladeReport{
		Clades:  CladeBreakdown(table),
		TopCFR:  TopCountryCladeCFR(table, TopCladeCFR),
		Unknown: UnknownCladeCountries(table, TopUnknownClades),
		Trend:   CladeTrend(table),
	}
}

// CladeBreakdown 按分支汇总病例与死亡，跳过分支为空的行
// 病例取 confirmed_cases，缺列时取 weekly_new_cases；按病例数降序
func CladeBreakdown(table *model.Table) []model.CladeTotals {
	out := []model.CladeTotals{}
	if table == nil || !table.Schema.Has(model.FieldClade) {
		return out
	}
	schema := table.Schema
	caseField := model.FieldConfirmedCases
	if !schema.Has(caseField) {
		caseField = model.FieldWeeklyNewCases
	}

	type group struct {
		rows          int
		cases, deaths accumulator
	}
	groups := make(map[string]*group)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Clade == "" {
			continue
		}
		g, ok := groups[rec.Clade]
		if !ok {
			g = &group{}
			groups[rec.Clade] = g
		}
		g.rows++
		if schema.Has(caseField) {
			g.cases.add(rec.Number(caseField))
		}
		if schema.Has(model.FieldDeaths) {
			g.deaths.add(rec.Deaths)
		}
	}

	var total accumulator
	for clade, g := range groups {
		t := model.CladeTotals{
			Clade:  clade,
			Rows:   g.rows,
			Cases:  g.cases.value(),
			Deaths: g.deaths.value(),
		}
		t.CFRPercent = ratio(t.Deaths, t.Cases, 100)
		total.add(t.Cases)
		out = append(out, t)
	}
	for i := range out {
		out[i].SharePct = ratio(out[i].Cases, total.value(), 100)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Cases, out[j].Cases
		if (a == nil) != (b == nil) {
			return a != nil
		}
		if a != nil && *a != *b {
			return *a > *b
		}
		return out[i].Clade < out[j].Clade
	})
	return out
}

// TopCountryCladeCFR 国家×分支组合按病死率降序，只保留病例数大于 0 的组合
// 需要 country、clade、confirmed_cases、deaths 四列；n <= 0 时返回全部
func TopCountryCladeCFR(table *model.Table, n int) []model.CountryCladeCFR {
	out := []model.CountryCladeCFR{}
	if table == nil || !table.Schema.HasAll(model.FieldCountry, model.FieldClade, model.FieldConfirmedCases, model.FieldDeaths) {
		return out
	}

	type key struct{ country, clade string }
	type sums struct{ cases, deaths float64 }
	groups := make(map[key]*sums)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country == "" || rec.Clade == "" {
			continue
		}
		k := key{rec.Country, rec.Clade}
		s, ok := groups[k]
		if !ok {
			s = &sums{}
			groups[k] = s
		}
		s.cases += valueOr(rec.ConfirmedCases, 0)
		s.deaths += valueOr(rec.Deaths, 0)
	}

	for k, s := range groups {
		if s.cases <= 0 {
			continue
		}
		out = append(out, model.CountryCladeCFR{
			Country:    k.country,
			Clade:      k.clade,
			Cases:      s.cases,
			Deaths:     s.deaths,
			CFRPercent: s.deaths / s.cases * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CFRPercent != out[j].CFRPercent {
			return out[i].CFRPercent > out[j].CFRPercent
		}
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].Clade < out[j].Clade
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// UnknownCladeCountries 分支为空或 Unknown 的记录按国家汇总确诊数，降序
func UnknownCladeCountries(table *model.Table, n int) []model.UnknownCladeCountry {
	out := []model.UnknownCladeCountry{}
	if table == nil || !table.Schema.HasAll(model.FieldCountry, model.FieldClade, model.FieldConfirmedCases) {
		return out
	}

	sums := make(map[string]float64)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country == "" || !rec.CladeUnknown() {
			continue
		}
		sums[rec.Country] += valueOr(rec.ConfirmedCases, 0)
	}
	for country, cases := range sums {
		out = append(out, model.UnknownCladeCountry{Country: country, ConfirmedCases: cases})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConfirmedCases != out[j].ConfirmedCases {
			return out[i].ConfirmedCases > out[j].ConfirmedCases
		}
		return out[i].Country < out[j].Country
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CladeTrend 按上报日期、分支汇总 weekly_new_cases，分支为空记为 Unknown
func CladeTrend(table *model.Table) []model.CladePoint {
	out := []model.CladePoint{}
	if table == nil || !table.Schema.HasAll(model.FieldClade, model.FieldWeeklyNewCases) || !table.Schema.HasDates {
		return out
	}

	type key struct {
		date  time.Time
		clade string
	}
	sums := make(map[key]float64)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.ReportDate == nil || rec.WeeklyNewCases == nil {
			continue
		}
		sums[key{parser.DayOf(*rec.ReportDate), rec.CladeLabel()}] += *rec.WeeklyNewCases
	}
	for k, v := range sums {
		out = append(out, model.CladePoint{Date: k.date, Clade: k.clade, Cases: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Clade < out[j].Clade
	})
	return out
}
