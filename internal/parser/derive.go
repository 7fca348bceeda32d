package parser

import (
	"mpoxdash/internal/model"
)

// DeriveFields 生成衍生字段，重复调用无副作用
//
//   - report_date 至少有一个有效值时生成 date / year_week / year_month
//   - 数据源没有病死率列但有 deaths 与 confirmed_cases 时按行推导
func DeriveFields(t *model.Table) {
	if t == nil {
		return
	}
	deriveCalendar(t)
	deriveCFR(t)
}

func deriveCalendar(t *model.Table) {
	if t.Schema.HasDates || !t.Schema.Has(model.FieldReportDate) {
		return
	}

	valid := false
	for i := range t.Records {
		if t.Records[i].ReportDate != nil {
			valid = true
			break
		}
	}
	if !valid {
		return
	}

	for i := range t.Records {
		rec := &t.Records[i]
		if rec.ReportDate == nil {
			continue
		}
		rec.Date = FormatDate(*rec.ReportDate)
		rec.YearWeek = FormatYearWeek(*rec.ReportDate)
		rec.YearMonth = FormatYearMonth(*rec.ReportDate)
	}
	t.Schema.HasDates = true
	t.Schema.Fields[model.FieldDate] = true
	t.Schema.Fields[model.FieldYearWeek] = true
	t.Schema.Fields[model.FieldYearMonth] = true
}

func deriveCFR(t *model.Table) {
	if t.Schema.Has(model.FieldCaseFatalityRate) {
		return
	}
	if !t.Schema.HasAll(model.FieldDeaths, model.FieldConfirmedCases) {
		return
	}

	for i := range t.Records {
		rec := &t.Records[i]
		rec.CaseFatalityRate = RowCFR(rec.Deaths, rec.ConfirmedCases)
	}
	t.Schema.Fields[model.FieldCaseFatalityRate] = true
	t.Schema.CFRDerived = true
}

// RowCFR 单行病死率（%），病例数为 0 或任一未知时为未知
func RowCFR(deaths, cases *float64) *float64 {
	if deaths == nil || cases == nil || *cases == 0 {
		return nil
	}
	return model.Float(*deaths / *cases * 100)
}
