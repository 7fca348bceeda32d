package model

import "time"

// CountryAggregate 国家维度汇总指标
// 指针字段为 nil 表示未知（列缺失或分母为 0）
type CountryAggregate struct {
	Country string `json:"country"`
	Rows    int    `json:"rows"`

	TotalCases     *float64 `json:"totalCases"`
	TotalDeaths    *float64 `json:"totalDeaths"`
	SuspectedCases *float64 `json:"suspectedCases"`
	Allocated      *float64 `json:"allocated"`
	Deployed       *float64 `json:"deployed"`
	Administered   *float64 `json:"administered"`
	TrainedCHWs    *float64 `json:"trainedChws"`
	DeployedCHWs   *float64 `json:"deployedChws"`
	Sites          *float64 `json:"sites"`
	Labs           *float64 `json:"labs"`
	LatestCoverage *float64 `json:"latestCoverage"`

	LastReport *time.Time `json:"lastReport,omitempty"`

	CFRPercent            *float64 `json:"cfrPercent"`
	DeployedPerCase       *float64 `json:"deployedPerCase"`
	TrainedPerCase        *float64 `json:"trainedPerCase"`
	SurveillancePerCase   *float64 `json:"surveillancePerCase"`
	UptakeRatePct         *float64 `json:"uptakeRatePct"`
	DeploymentRatePct     *float64 `json:"deploymentRatePct"`
	AdministrationRatePct *float64 `json:"administrationRatePct"`
	AllocationPer1000     *float64 `json:"allocationPer1000"`

	UndeployedStock          *float64 `json:"undeployedStock"`
	InCountryNotAdministered *float64 `json:"inCountryNotAdministered"`

	Growth4W      *float64 `json:"growth4w"`
	PriorityScore float64  `json:"priorityScore"`
	Stale         bool     `json:"stale"`
}

// ScoreBreakdown 优先级评分分项
type ScoreBreakdown struct {
	CaseBurden       float64 `json:"burdenCases"`
	CFRBurden        float64 `json:"burdenCfr"`
	WorkforceGap     float64 `json:"gapChwPerCase"`
	SurveillanceGap  float64 `json:"gapSurveillancePerCase"`
	AllocationEquity float64 `json:"equityAllocation"`
	GrowthTrend      float64 `json:"trendGrowth"`
	Total            float64 `json:"total"`
}

// WeeklyPoint 国家周度新增病例
type WeeklyPoint struct {
	Country   string    `json:"country"`
	WeekStart time.Time `json:"weekStart"`
	Cases     float64   `json:"cases"`
}
