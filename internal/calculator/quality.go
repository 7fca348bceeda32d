package calculator

import (
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// Quality 数据质量指标
// 依赖的列不存在或表为空时对应百分比为未知；负值检查覆盖全部已存在的数值列
func Quality(table *model.Table, now time.Time, staleDays int) model.QualityReport {
	report := model.QualityReport{
		NegativeFields: []model.Field{},
		Completeness:   []model.FieldCompleteness{},
	}
	if table == nil {
		return report
	}

	schema := table.Schema
	rows := table.Records
	report.Rows = len(rows)

	for i := range rows {
		d := rows[i].ReportDate
		if d != nil && (report.LatestReport == nil || d.After(*report.LatestReport)) {
			t := *d
			report.LatestReport = &t
		}
	}
	if report.LatestReport != nil {
		days := daysBetween(*report.LatestReport, now)
		report.FreshnessDays = &days
		report.Stale = staleDays > 0 && days > staleDays
	}

	for _, f := range model.NumericFields {
		if !schema.Has(f) {
			continue
		}
		for i := range rows {
			if v := rows[i].Number(f); v != nil && *v < 0 {
				report.NegativeFields = append(report.NegativeFields, f)
				break
			}
		}
	}
	report.NegativesPresent = len(report.NegativeFields) > 0

	for _, a := range parser.AliasTable {
		c := model.FieldCompleteness{Field: a.Field, Present: schema.Has(a.Field)}
		if c.Present {
			for i := range rows {
				if fieldKnown(&rows[i], a.Field) {
					c.Known++
				}
			}
			if len(rows) > 0 {
				c.Percentage = float64(c.Known) / float64(len(rows)) * 100
			}
		}
		report.Completeness = append(report.Completeness, c)
	}

	if len(rows) == 0 {
		return report
	}

	if schema.Has(model.FieldClade) {
		report.UnknownCladePct = rowPct(rows, func(r *model.Record) bool {
			return r.CladeUnknown()
		})
	}
	if schema.Has(model.FieldVaccinationsAdministered) {
		report.VaccinationsMissingPct = rowPct(rows, func(r *model.Record) bool {
			return r.VaccinationsAdministered == nil
		})
	}
	if schema.HasAny(model.FieldDeployedCHWs, model.FieldTrainedCHWs) {
		report.CHWMissingPct = rowPct(rows, func(r *model.Record) bool {
			return r.DeployedCHWs == nil && r.TrainedCHWs == nil
		})
	}
	if schema.HasAll(model.FieldVaccineDoseAllocated, model.FieldVaccineDoseDeployed, model.FieldVaccinationsAdministered) {
		report.AdminOverDeployedPct = rowPct(rows, func(r *model.Record) bool {
			return exceeds(r.VaccinationsAdministered, r.VaccineDoseDeployed)
		})
		report.DeployedOverAllocPct = rowPct(rows, func(r *model.Record) bool {
			return exceeds(r.VaccineDoseDeployed, r.VaccineDoseAllocated)
		})
	}
	return report
}

// rowPct 满足条件的行占全部行的百分比
func rowPct(rows []model.Record, match func(*model.Record) bool) *float64 {
	n := 0
	for i := range rows {
		if match(&rows[i]) {
			n++
		}
	}
	return model.Float(float64(n) / float64(len(rows)) * 100)
}

func exceeds(a, b *float64) bool {
	return a != nil && b != nil && *a > *b
}

func fieldKnown(r *model.Record, f model.Field) bool {
	switch f {
	case model.FieldCountry:
		return r.Country != ""
	case model.FieldReportDate:
		return r.ReportDate != nil
	case model.FieldClade:
		return r.Clade != ""
	case model.FieldSurveillanceNotes:
		return r.SurveillanceNotes != ""
	}
	return r.Number(f) != nil
}
