package parser

import (
	"fmt"
	"strings"

	"mpoxdash/internal/model"
)

// Normalize 将原始表格规范化为统一数据表
// 列名按别名表映射，数值/日期做类型转换，衍生字段在此一次性生成
func Normalize(raw RawSheet) (*model.Table, error) {
	table, _, err := NormalizeWithStats(raw)
	return table, err
}

// NormalizeWithStats 同 Normalize，并返回转换统计
func NormalizeWithStats(raw RawSheet) (*model.Table, NormalizeStats, error) {
	var stats NormalizeStats
	if len(raw.Headers) == 0 {
		return nil, stats, fmt.Errorf("normalize sheet %q: %w", raw.Name, ErrEmptySheet)
	}

	mappings, unmapped := NewFieldMapper().Map(raw.Headers)

	schema := model.NewSchema()
	schema.Mappings = mappings
	for _, m := range mappings {
		schema.Fields[m.Field] = true
	}
	for _, idx := range unmapped {
		schema.Unmapped = append(schema.Unmapped, NormalizeColumnName(raw.Headers[idx]))
	}

	records := make([]model.Record, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		stats.TotalRows++
		if IsBlankRow(row) {
			stats.BlankRows++
			continue
		}

		rec := model.Record{RowNo: i + 2} // 第 1 行为表头
		for _, m := range mappings {
			cell := strings.TrimSpace(cellAt(row, m.ColumnIndex))
			if !assignCell(&rec, m.Field, cell) {
				stats.InvalidCells++
			}
		}
		for _, idx := range unmapped {
			cell := strings.TrimSpace(cellAt(row, idx))
			if cell == "" {
				continue
			}
			if rec.Extras == nil {
				rec.Extras = make(map[string]string)
			}
			rec.Extras[NormalizeColumnName(raw.Headers[idx])] = cell
		}
		records = append(records, rec)
	}

	table := &model.Table{
		Records: records,
		Schema:  schema,
		Source:  model.SourceInfo{Sheet: raw.Name},
	}
	DeriveFields(table)
	return table, stats, nil
}

// assignCell 写入单元格，返回 false 表示非空但无法转换
func assignCell(rec *model.Record, field model.Field, cell string) bool {
	switch field {
	case model.FieldCountry:
		rec.Country = cell
		return true
	case model.FieldClade:
		rec.Clade = cell
		return true
	case model.FieldSurveillanceNotes:
		rec.SurveillanceNotes = cell
		return true
	case model.FieldReportDate:
		rec.ReportDate = ParseDate(cell)
		return cell == "" || rec.ReportDate != nil
	}

	v := ParseNumber(cell)
	rec.SetNumber(field, v)
	return cell == "" || v != nil
}
