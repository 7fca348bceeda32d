package model

import (
	"strings"
	"time"
)

// Field 规范字段名（与数据源列名别名表对应）
type Field string

const (
	FieldCountry                  Field = "country"
	FieldReportDate               Field = "report_date"
	FieldConfirmedCases           Field = "confirmed_cases"
	FieldDeaths                   Field = "deaths"
	FieldVaccinationsAdministered Field = "vaccinations_administered"
	FieldActiveSurveillanceSites  Field = "active_surveillance_sites"
	FieldSuspectedCases           Field = "suspected_cases"
	FieldCaseFatalityRate         Field = "case_fatality_rate"
	FieldClade                    Field = "clade"
	FieldWeeklyNewCases           Field = "weekly_new_cases"
	FieldVaccineDoseAllocated     Field = "vaccine_dose_allocated"
	FieldVaccineDoseDeployed      Field = "vaccine_dose_deployed"
	FieldVaccineCoverage          Field = "vaccine_coverage"
	FieldTestingLaboratories      Field = "testing_laboratries" // 拼写沿用数据源
	FieldTrainedCHWs              Field = "trained_chws"
	FieldDeployedCHWs             Field = "deployed_chws"
	FieldSurveillanceNotes        Field = "surveillance_notes"

	// 衍生字段（加载时一次性生成）
	FieldDate      Field = "date"
	FieldYearWeek  Field = "year_week"
	FieldYearMonth Field = "year_month"
)

// NumericFields 需要做数值转换的规范字段
var NumericFields = []Field{
	FieldConfirmedCases,
	FieldDeaths,
	FieldVaccinationsAdministered,
	FieldActiveSurveillanceSites,
	FieldSuspectedCases,
	FieldCaseFatalityRate,
	FieldWeeklyNewCases,
	FieldVaccineDoseAllocated,
	FieldVaccineDoseDeployed,
	FieldVaccineCoverage,
	FieldTestingLaboratories,
	FieldTrainedCHWs,
	FieldDeployedCHWs,
}

// UnknownClade 缺失毒株分支的展示标签
const UnknownClade = "Unknown"

// Record 数据源中的一行（规范化后）
// 数值字段为 nil 表示“未知”，不等同于 0
type Record struct {
	RowNo int `json:"rowNo"`

	Country    string     `json:"country"`
	ReportDate *time.Time `json:"reportDate,omitempty"`

	ConfirmedCases           *float64 `json:"confirmedCases"`
	Deaths                   *float64 `json:"deaths"`
	WeeklyNewCases           *float64 `json:"weeklyNewCases"`
	SuspectedCases           *float64 `json:"suspectedCases"`
	CaseFatalityRate         *float64 `json:"caseFatalityRate"`
	VaccineDoseAllocated     *float64 `json:"vaccineDoseAllocated"`
	VaccineDoseDeployed      *float64 `json:"vaccineDoseDeployed"`
	VaccinationsAdministered *float64 `json:"vaccinationsAdministered"`
	VaccineCoverage          *float64 `json:"vaccineCoverage"`
	ActiveSurveillanceSites  *float64 `json:"activeSurveillanceSites"`
	TestingLaboratories      *float64 `json:"testingLaboratries"`
	TrainedCHWs              *float64 `json:"trainedChws"`
	DeployedCHWs             *float64 `json:"deployedChws"`

	Clade             string `json:"clade"`
	SurveillanceNotes string `json:"surveillanceNotes"`

	// 衍生列
	Date      string `json:"date,omitempty"`
	YearWeek  string `json:"yearWeek,omitempty"`
	YearMonth string `json:"yearMonth,omitempty"`

	// 未映射到规范字段的原始列
	Extras map[string]string `json:"extras,omitempty"`
}

// Number 按规范字段取数值
func (r *Record) Number(f Field) *float64 {
	switch f {
	case FieldConfirmedCases:
		return r.ConfirmedCases
	case FieldDeaths:
		return r.Deaths
	case FieldWeeklyNewCases:
		return r.WeeklyNewCases
	case FieldSuspectedCases:
		return r.SuspectedCases
	case FieldCaseFatalityRate:
		return r.CaseFatalityRate
	case FieldVaccineDoseAllocated:
		return r.VaccineDoseAllocated
	case FieldVaccineDoseDeployed:
		return r.VaccineDoseDeployed
	case FieldVaccinationsAdministered:
		return r.VaccinationsAdministered
	case FieldVaccineCoverage:
		return r.VaccineCoverage
	case FieldActiveSurveillanceSites:
		return r.ActiveSurveillanceSites
	case FieldTestingLaboratories:
		return r.TestingLaboratories
	case FieldTrainedCHWs:
		return r.TrainedCHWs
	case FieldDeployedCHWs:
		return r.DeployedCHWs
	}
	return nil
}

// SetNumber 按规范字段写入数值
func (r *Record) SetNumber(f Field, v *float64) {
	switch f {
	case FieldConfirmedCases:
		r.ConfirmedCases = v
	case FieldDeaths:
		r.Deaths = v
	case FieldWeeklyNewCases:
		r.WeeklyNewCases = v
	case FieldSuspectedCases:
		r.SuspectedCases = v
	case FieldCaseFatalityRate:
		r.CaseFatalityRate = v
	case FieldVaccineDoseAllocated:
		r.VaccineDoseAllocated = v
	case FieldVaccineDoseDeployed:
		r.VaccineDoseDeployed = v
	case FieldVaccinationsAdministered:
		r.VaccinationsAdministered = v
	case FieldVaccineCoverage:
		r.VaccineCoverage = v
	case FieldActiveSurveillanceSites:
		r.ActiveSurveillanceSites = v
	case FieldTestingLaboratories:
		r.TestingLaboratories = v
	case FieldTrainedCHWs:
		r.TrainedCHWs = v
	case FieldDeployedCHWs:
		r.DeployedCHWs = v
	}
}

// CladeLabel 毒株分支标签，缺失时为 Unknown
func (r *Record) CladeLabel() string {
	if r.Clade == "" {
		return UnknownClade
	}
	return r.Clade
}

// CladeUnknown 毒株分支缺失或标记为 Unknown
func (r *Record) CladeUnknown() bool {
	return r.Clade == "" || strings.EqualFold(r.Clade, UnknownClade)
}

// Clone 深拷贝，保证过滤结果与原表互不影响
func (r Record) Clone() Record {
	out := r
	if r.ReportDate != nil {
		t := *r.ReportDate
		out.ReportDate = &t
	}
	for _, f := range NumericFields {
		if v := r.Number(f); v != nil {
			out.SetNumber(f, Float(*v))
		}
	}
	if r.Extras != nil {
		out.Extras = make(map[string]string, len(r.Extras))
		for k, v := range r.Extras {
			out.Extras[k] = v
		}
	}
	return out
}

// Float 返回数值指针
func Float(v float64) *float64 {
	return &v
}
