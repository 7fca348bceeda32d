package model

import "time"

// CladeTotals 毒株分支汇总
type CladeTotals struct {
	Clade      string   `json:"clade"`
	Rows       int      `json:"rows"`
	Cases      *float64 `json:"cases"`
	Deaths     *float64 `json:"deaths"`
	CFRPercent *float64 `json:"cfrPercent"`
	SharePct   *float64 `json:"sharePct"` // 占全部已知分支病例的比例
}

// CountryCladeCFR 国家×分支组合的病死率
type CountryCladeCFR struct {
	Country    string  `json:"country"`
	Clade      string  `json:"clade"`
	Cases      float64 `json:"cases"`
	Deaths     float64 `json:"deaths"`
	CFRPercent float64 `json:"cfrPercent"`
}

// UnknownCladeCountry 分支未知记录的国家病例数
type UnknownCladeCountry struct {
	Country        string  `json:"country"`
	ConfirmedCases float64 `json:"confirmedCases"`
}

// CladePoint 按上报日期、分支汇总的周新增病例
type CladePoint struct {
	Date  time.Time `json:"date"`
	Clade string    `json:"clade"`
	Cases float64   `json:"cases"`
}

// CladeReport 分支分析
type CladeReport struct {
	Clades  []CladeTotals         `json:"clades"`
	TopCFR  []CountryCladeCFR     `json:"topCfr"`
	Unknown []UnknownCladeCountry `json:"unknown"`
	Trend   []CladePoint          `json:"trend"`
}
