// Package exporter 将国家汇总、过滤后的数据及数据质量导出为 xlsx
package exporter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"mpoxdash/internal/calculator"
	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// 工作表名称
const (
	SheetCountryMetrics = "Country Metrics"
	SheetFilteredData   = "Filtered Data"
	SheetDataQuality    = "Data Quality"
)

// ContentType xlsx 响应类型
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter 报表导出器
type Exporter struct {
	digits int
}

// NewExporter 创建导出器，比率保留两位小数
func NewExporter() *Exporter {
	return &Exporter{digits: 2}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Table       *model.Table             // 过滤后的数据
	Aggregates  []model.CountryAggregate // 国家汇总（按优先级排序）
	Quality     model.QualityReport
	Description string // 过滤条件描述
	Progress    func(ProgressEvent)
}

// Export 生成工作簿，调用方负责 Close
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("export: table is nil")
	}

	f := excelize.NewFile()
	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	progress := newProgressTracker(opts.Progress)
	progress.step(5, "准备工作簿", "")

	steps := []struct {
		percent int
		stage   string
		sheet   string
		run     func() error
	}{
		{35, "写入国家指标", SheetCountryMetrics, func() error { return e.writeCountryMetrics(f, styles, opts.Aggregates) }},
		{80, "写入过滤数据", SheetFilteredData, func() error {
			return e.writeFilteredData(f, styles, opts.Table, func(done, total int) {
				progress.rows(35, 80, done, total, "写入过滤数据", SheetFilteredData)
			})
		}},
		{95, "写入数据质量", SheetDataQuality, func() error { return e.writeDataQuality(f, styles, opts) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", step.stage, err)
		}
		progress.step(step.percent, step.stage, step.sheet)
	}

	// 默认 Sheet1 由 NewFile 创建
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetCountryMetrics); err == nil {
		f.SetActiveSheet(idx)
	}

	progress.step(100, "导出完成", "")
	return f, nil
}

// ExportToFile 导出并保存到指定路径
func (e *Exporter) ExportToFile(path string, opts ExportOptions) error {
	f, err := e.Export(opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Filename 下载文件名
func Filename(now time.Time) string {
	return fmt.Sprintf("mpox-dashboard-%s.xlsx", now.Format("20060102-150405"))
}

type styles struct {
	header int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header}, nil
}

var countryMetricHeaders = []string{
	"Country", "Priority Score", "Total Cases", "Total Deaths", "CFR %",
	"Deployed CHWs per Case", "Trained CHWs per Case", "Surveillance per Case",
	"Allocated", "Deployed", "Administered", "Allocation per 1000 Cases", "Uptake %",
	"Undeployed Stock", "In-country Not Administered", "Growth 4W", "Last Report", "Stale",
	"Alerts", "Recommendations",
}

func (e *Exporter) writeCountryMetrics(f *excelize.File, st styles, aggs []model.CountryAggregate) error {
	sheet := SheetCountryMetrics
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, countryMetricHeaders, st.header); err != nil {
		return err
	}

	for i, a := range aggs {
		lastReport := ""
		if a.LastReport != nil {
			lastReport = parser.FormatDate(*a.LastReport)
		}
		row := []any{
			a.Country,
			e.round(a.PriorityScore),
			e.number(a.TotalCases),
			e.number(a.TotalDeaths),
			e.number(a.CFRPercent),
			e.number(a.DeployedPerCase),
			e.number(a.TrainedPerCase),
			e.number(a.SurveillancePerCase),
			e.number(a.Allocated),
			e.number(a.Deployed),
			e.number(a.Administered),
			e.number(a.AllocationPer1000),
			e.number(a.UptakeRatePct),
			e.number(a.UndeployedStock),
			e.number(a.InCountryNotAdministered),
			e.number(a.Growth4W),
			lastReport,
			a.Stale,
			strings.Join(calculator.Flags(a), "; "),
			strings.Join(calculator.Recommend(a), " "),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "S", "T", 60)
	return freezeHeader(f, sheet)
}

// filteredColumns 已存在的规范字段（别名表顺序）、衍生列、未映射列
func filteredColumns(t *model.Table) (headers []string, cell func(r *model.Record, col int) any) {
	type column struct {
		name  string
		value func(r *model.Record) any
	}
	var cols []column

	for _, a := range parser.AliasTable {
		field := a.Field
		if !t.Schema.Has(field) {
			continue
		}
		cols = append(cols, column{string(field), func(r *model.Record) any { return recordValue(r, field) }})
	}
	if t.Schema.HasDates {
		cols = append(cols,
			column{string(model.FieldDate), func(r *model.Record) any { return r.Date }},
			column{string(model.FieldYearWeek), func(r *model.Record) any { return r.YearWeek }},
			column{string(model.FieldYearMonth), func(r *model.Record) any { return r.YearMonth }},
		)
	}
	for _, name := range t.Schema.Unmapped {
		name := name
		cols = append(cols, column{name, func(r *model.Record) any { return r.Extras[name] }})
	}

	headers = make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.name
	}
	return headers, func(r *model.Record, col int) any { return cols[col].value(r) }
}

func recordValue(r *model.Record, f model.Field) any {
	switch f {
	case model.FieldCountry:
		return r.Country
	case model.FieldReportDate:
		if r.ReportDate == nil {
			return nil
		}
		return parser.FormatDate(*r.ReportDate)
	case model.FieldClade:
		return r.Clade
	case model.FieldSurveillanceNotes:
		return r.SurveillanceNotes
	}
	if v := r.Number(f); v != nil {
		return *v
	}
	return nil
}

func (e *Exporter) writeFilteredData(f *excelize.File, st styles, t *model.Table, onRow func(done, total int)) error {
	sheet := SheetFilteredData
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	headers, cell := filteredColumns(t)
	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = excelize.Cell{StyleID: st.header, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for i := range t.Records {
		row := make([]any, len(headers))
		for c := range headers {
			row[c] = cell(&t.Records[i], c)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, row); err != nil {
			return err
		}
		if onRow != nil {
			onRow(i+1, len(t.Records))
		}
	}
	return sw.Flush()
}

func (e *Exporter) writeDataQuality(f *excelize.File, st styles, opts ExportOptions) error {
	sheet := SheetDataQuality
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	q := opts.Quality
	latest := ""
	if q.LatestReport != nil {
		latest = parser.FormatDate(*q.LatestReport)
	}
	var freshness any
	if q.FreshnessDays != nil {
		freshness = *q.FreshnessDays
	}
	negatives := make([]string, len(q.NegativeFields))
	for i, fd := range q.NegativeFields {
		negatives[i] = string(fd)
	}

	rows := [][]any{
		{"Filters", opts.Description},
		{"Rows", q.Rows},
		{"Latest Report", latest},
		{"Freshness (days)", freshness},
		{"Stale", q.Stale},
		{"Unknown Clade %", e.number(q.UnknownCladePct)},
		{"Vaccinations Missing %", e.number(q.VaccinationsMissingPct)},
		{"CHW Missing %", e.number(q.CHWMissingPct)},
		{"Negative Values", strings.Join(negatives, ", ")},
		{"Administered > Deployed %", e.number(q.AdminOverDeployedPct)},
		{"Deployed > Allocated %", e.number(q.DeployedOverAllocPct)},
	}
	if err := writeHeader(f, sheet, []string{"Metric", "Value"}, st.header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := writeRow(f, sheet, i+2, r); err != nil {
			return err
		}
	}

	start := len(rows) + 3
	if err := writeHeaderAt(f, sheet, start, []string{"Field", "Present", "Known", "Completeness %"}, st.header); err != nil {
		return err
	}
	for i, c := range q.Completeness {
		if err := writeRow(f, sheet, start+1+i, []any{string(c.Field), c.Present, c.Known, e.round(c.Percentage)}); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	return nil
}

// ---------- 通用工具函数 ----------

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	return writeHeaderAt(f, sheet, 1, headers, style)
}

func writeHeaderAt(f *excelize.File, sheet string, row int, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, row, values); err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, axis, &values)
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// number 未知值写为空单元格
func (e *Exporter) number(v *float64) any {
	if v == nil {
		return nil
	}
	return e.round(*v)
}

func (e *Exporter) round(v float64) float64 {
	return roundHalfUp(v, e.digits)
}

func roundHalfUp(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	scale := math.Pow10(digits)
	x := v * scale
	if x >= 0 {
		return math.Floor(x+0.5) / scale
	}
	return -math.Floor(-x+0.5) / scale
}
