package model

// ReportSettings 分析阈值
type ReportSettings struct {
	StaleDays       int `json:"staleDays"`       // 超过该天数未上报视为过期
	AnomalyMinWeeks int `json:"anomalyMinWeeks"` // 异常检测所需最少周数
	TopN            int `json:"topN"`            // 报告/汇总展示的国家数
}

// DefaultReportSettings 默认分析阈值
func DefaultReportSettings() ReportSettings {
	return ReportSettings{
		StaleDays:       28,
		AnomalyMinWeeks: 6,
		TopN:            10,
	}
}
