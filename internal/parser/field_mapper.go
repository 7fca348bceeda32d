package parser

import (
	"mpoxdash/internal/model"
)

// Alias 规范字段及其候选列名（顺序即优先级）
type Alias struct {
	Field   model.Field
	Aliases []string
}

// AliasTable 列名兼容表，字段顺序与别名顺序都参与匹配
var AliasTable = []Alias{
	{model.FieldCountry, []string{"country", "Country"}},
	{model.FieldReportDate, []string{"report_date", "date", "Date", "reportDate"}},
	{model.FieldConfirmedCases, []string{"confirmed_cases", "Confirmed", "confirmed", "cases"}},
	{model.FieldDeaths, []string{"deaths", "Deaths", "fatalities"}},
	{model.FieldVaccinationsAdministered, []string{"vaccinations_administered", "vax_administered", "administered"}},
	{model.FieldActiveSurveillanceSites, []string{"active_surveillance_sites", "active_sites", "surveillance_sites"}},
	{model.FieldSuspectedCases, []string{"suspected_cases", "suspected"}},
	{model.FieldCaseFatalityRate, []string{"case_fatality_rate", "cfr", "cfr_percent"}},
	{model.FieldClade, []string{"clade", "strain"}},
	{model.FieldWeeklyNewCases, []string{"weekly_new_cases", "weekly_cases"}},
	{model.FieldVaccineDoseAllocated, []string{"vaccine_dose_allocated", "allocated"}},
	{model.FieldVaccineDoseDeployed, []string{"vaccine_dose_deployed", "deployed"}},
	{model.FieldVaccineCoverage, []string{"vaccine_coverage", "coverage_percent", "coverage"}},
	{model.FieldTestingLaboratories, []string{"testing_laboratries", "testing_labs", "laboratories", "labs"}},
	{model.FieldTrainedCHWs, []string{"trained_chws", "trained_chw"}},
	{model.FieldDeployedCHWs, []string{"deployed_chws", "deployed_chw"}},
	{model.FieldSurveillanceNotes, []string{"surveillance_notes", "notes", "surveillance_note"}},
}

// FieldMapper 字段映射器
type FieldMapper struct {
	table []Alias
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{table: AliasTable}
}

// Map 将表头映射为规范字段，返回映射结果和未映射列索引
//
// 规则：
//   - 按字段顺序、别名顺序逐一查找，大小写不敏感
//   - 多个表头小写后相同时取最左一列
//   - 每一列最多被一个规范字段占用
func (m *FieldMapper) Map(headers []string) ([]model.ColumnMapping, []int) {
	lowerCols := make(map[string]int, len(headers))
	for idx, h := range headers {
		key := LowerColumnName(h)
		if key == "" {
			continue
		}
		if _, exists := lowerCols[key]; !exists {
			lowerCols[key] = idx
		}
	}

	claimed := make(map[int]bool)
	var mappings []model.ColumnMapping
	for _, entry := range m.table {
		for _, alias := range entry.Aliases {
			idx, ok := lowerCols[LowerColumnName(alias)]
			if !ok || claimed[idx] {
				continue
			}
			claimed[idx] = true
			mappings = append(mappings, model.ColumnMapping{
				ColumnIndex: idx,
				ColumnName:  NormalizeColumnName(headers[idx]),
				Field:       entry.Field,
				Alias:       alias,
			})
			break
		}
	}

	var unmapped []int
	for idx, h := range headers {
		if claimed[idx] || NormalizeColumnName(h) == "" {
			continue
		}
		unmapped = append(unmapped, idx)
	}
	return mappings, unmapped
}

// Resolve 单个列名对应的规范字段
func (m *FieldMapper) Resolve(header string) (model.Field, bool) {
	key := LowerColumnName(header)
	if key == "" {
		return "", false
	}
	for _, entry := range m.table {
		for _, alias := range entry.Aliases {
			if LowerColumnName(alias) == key {
				return entry.Field, true
			}
		}
	}
	return "", false
}
