package calculator

import (
	"time"

	"mpoxdash/internal/model"
)

func f(v float64) *float64 { return model.Float(v) }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// newTable 构造测试表，日期列存在且有值时视为已生成衍生列
func newTable(fields []model.Field, records ...model.Record) *model.Table {
	schema := model.NewSchema()
	for _, fd := range fields {
		schema.Fields[fd] = true
	}
	if schema.Has(model.FieldReportDate) {
		for _, r := range records {
			if r.ReportDate != nil {
				schema.HasDates = true
				break
			}
		}
	}
	return &model.Table{Records: records, Schema: schema}
}
