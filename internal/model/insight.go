package model

import "time"

// Persona 国家画像
type Persona string

const (
	PersonaHighBurdenLowCapacity     Persona = "High-burden, low capacity"
	PersonaUnderAllocatedLowUptake   Persona = "Under-allocated, low uptake"
	PersonaWellAllocatedLowUptake    Persona = "Well-allocated, low uptake"
	PersonaLowBurdenWeakSurveillance Persona = "Low burden, weak surveillance"
	PersonaBalanced                  Persona = "Balanced"
)

// PersonaAssignment 国家画像及对应行动清单
type PersonaAssignment struct {
	Country  string   `json:"country"`
	Persona  Persona  `json:"persona"`
	Playbook []string `json:"playbook"`
	Stale    bool     `json:"stale"`
}

// Recommendation 国家建议
type Recommendation struct {
	Country       string   `json:"country"`
	PriorityScore float64  `json:"priorityScore"`
	Flags         []string `json:"flags"`
	Messages      []string `json:"messages"`
}

// Scenario 假设情景输入
type Scenario struct {
	AddDoses       float64 `json:"addDoses"`
	IncreaseCHWPct float64 `json:"increaseChwPct"`
	AddLabs        float64 `json:"addLabs"`
}

// SimulationResult 情景模拟结果
type SimulationResult struct {
	Country        string           `json:"country"`
	Scenario       Scenario         `json:"scenario"`
	BaseScore      float64          `json:"baseScore"`
	ProjectedScore float64          `json:"projectedScore"`
	Delta          float64          `json:"delta"`
	Projected      CountryAggregate `json:"projected"`
}

// AnomalyPoint 异常周
type AnomalyPoint struct {
	WeekStart time.Time `json:"weekStart"`
	Cases     float64   `json:"cases"`
	Change    float64   `json:"change"`
	LevelZ    float64   `json:"levelZ"`
	ChangeZ   float64   `json:"changeZ"`
}

// CountryAnomalies 单个国家的异常检测结果
type CountryAnomalies struct {
	Country string         `json:"country"`
	Status  string         `json:"status"` // ok / insufficient data
	Points  []AnomalyPoint `json:"points"`
}

// FieldCompleteness 字段完整度
type FieldCompleteness struct {
	Field      Field   `json:"field"`
	Present    bool    `json:"present"`
	Known      int     `json:"known"`
	Percentage float64 `json:"percentage"`
}

// QualityReport 数据质量指标
// 百分比字段为 nil 表示依赖的列不存在
type QualityReport struct {
	Rows                   int                 `json:"rows"`
	LatestReport           *time.Time          `json:"latestReport,omitempty"`
	FreshnessDays          *int                `json:"freshnessDays"`
	Stale                  bool                `json:"stale"`
	UnknownCladePct        *float64            `json:"unknownCladePct"`
	VaccinationsMissingPct *float64            `json:"vaccinationsMissingPct"`
	CHWMissingPct          *float64            `json:"chwMissingPct"`
	NegativesPresent       bool                `json:"negativesPresent"`
	NegativeFields         []Field             `json:"negativeFields"`
	AdminOverDeployedPct   *float64            `json:"adminOverDeployedPct"`
	DeployedOverAllocPct   *float64            `json:"deployedOverAllocPct"`
	Completeness           []FieldCompleteness `json:"completeness"`
}

// Trend 近 7 天趋势
type Trend string

const (
	TrendIncreasing   Trend = "increasing"
	TrendDecreasing   Trend = "decreasing"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient data"
)

// Summary 执行摘要
type Summary struct {
	TotalCases         *float64 `json:"totalCases"`
	TotalDeaths        *float64 `json:"totalDeaths"`
	OverallCFR         *float64 `json:"overallCfr"`
	Countries          int      `json:"countries"`
	AvgCasesPerCountry *float64 `json:"avgCasesPerCountry"`
	TopCountry         string   `json:"topCountry,omitempty"`
	TopCountryCases    *float64 `json:"topCountryCases"`
	TotalAllocated     *float64 `json:"totalAllocated"`
	TotalAdministered  *float64 `json:"totalAdministered"`
	UptakeRatePct      *float64 `json:"uptakeRatePct"`
	Trend              Trend    `json:"trend"`
	Highlights         []string `json:"highlights"`
}
