// Package filter 按日期、国家、毒株分支和监测备注筛选规范化数据表
package filter

import (
	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// Apply 按选择条件过滤，返回新表和条件描述
// 原表不会被修改；未指定的维度以及数据源缺少对应列的维度不参与过滤
func Apply(table *model.Table, sel model.Selection) (*model.Table, string) {
	desc := Describe(sel)
	if table == nil {
		return &model.Table{Schema: model.NewSchema()}, desc
	}

	m := newMatcher(table.Schema, sel)
	records := make([]model.Record, 0, len(table.Records))
	for i := range table.Records {
		if m.match(&table.Records[i]) {
			records = append(records, table.Records[i].Clone())
		}
	}
	return table.CloneWith(records), desc
}

type matcher struct {
	dateRange *model.DateRange
	countries map[string]bool
	clades    map[string]bool
	notes     map[string]bool
}

func newMatcher(schema model.Schema, sel model.Selection) matcher {
	var m matcher
	if sel.DateRange != nil && schema.Has(model.FieldReportDate) {
		m.dateRange = &model.DateRange{
			Start: parser.DayOf(sel.DateRange.Start),
			End:   parser.DayOf(sel.DateRange.End),
		}
	}
	if schema.Has(model.FieldCountry) {
		m.countries = toSet(sel.Countries)
	}
	if schema.Has(model.FieldClade) {
		m.clades = toSet(sel.Clades)
	}
	if schema.Has(model.FieldSurveillanceNotes) {
		m.notes = toSet(sel.Notes)
	}
	return m
}

func (m matcher) match(rec *model.Record) bool {
	if m.dateRange != nil {
		if rec.ReportDate == nil || !m.dateRange.Contains(parser.DayOf(*rec.ReportDate)) {
			return false
		}
	}
	if m.countries != nil && !m.countries[rec.Country] {
		return false
	}
	if m.clades != nil && !m.clades[rec.CladeLabel()] {
		return false
	}
	if m.notes != nil && !m.notes[rec.SurveillanceNotes] {
		return false
	}
	return true
}

// toSet 空列表返回 nil，表示不限制
func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
