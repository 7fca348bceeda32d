package model

import (
	"sort"
	"time"
)

// 未指定一端时的日期边界
var (
	OpenStart = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	OpenEnd   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// DateRange 日期区间（两端闭区间）
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains 是否落在区间内
func (d DateRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// StartOpen 起点是否不限
func (d DateRange) StartOpen() bool {
	return !d.Start.After(OpenStart)
}

// EndOpen 终点是否不限
func (d DateRange) EndOpen() bool {
	return !d.End.Before(OpenEnd)
}

// Selection 过滤条件，空集合/nil 表示该维度不限制
type Selection struct {
	DateRange *DateRange `json:"dateRange,omitempty"`
	Countries []string   `json:"countries,omitempty"`
	Clades    []string   `json:"clades,omitempty"`
	Notes     []string   `json:"notes,omitempty"`
}

// IsEmpty 是否未设置任何过滤
func (s Selection) IsEmpty() bool {
	return s.DateRange == nil && len(s.Countries) == 0 && len(s.Clades) == 0 && len(s.Notes) == 0
}

// Canonical 各集合去重排序后的等价条件，不修改原值
func (s Selection) Canonical() Selection {
	out := Selection{
		Countries: CanonicalValues(s.Countries),
		Clades:    CanonicalValues(s.Clades),
		Notes:     CanonicalValues(s.Notes),
	}
	if s.DateRange != nil {
		r := *s.DateRange
		out.DateRange = &r
	}
	return out
}

// CanonicalValues 去重并排序，空集合返回 nil
func CanonicalValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// FilterOptions 过滤控件可选项
type FilterOptions struct {
	Countries []string   `json:"countries"`
	Clades    []string   `json:"clades"`
	Notes     []string   `json:"notes"`
	MinDate   *time.Time `json:"minDate,omitempty"`
	MaxDate   *time.Time `json:"maxDate,omitempty"`
}
