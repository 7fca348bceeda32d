package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel 序列日期的有效范围（1900-01-01 至 9999-12-31）
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// dateLayouts 支持的文本日期格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// NormalizeColumnName 规范化列名，去除首尾空白以及单元格内换行
func NormalizeColumnName(name string) string {
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", " ")
	return strings.TrimSpace(name)
}

// LowerColumnName 别名匹配使用的列名键
func LowerColumnName(name string) string {
	return strings.ToLower(NormalizeColumnName(name))
}

// ParseNumber 解析数值单元格
// 去除空白和千分位逗号；空值、非法值、NaN、±Inf 一律视为未知
func ParseNumber(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, " ", "")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseDate 解析日期单元格
// 纯数字按 Excel 序列日期处理，其余按常见文本格式尝试；失败返回 nil
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				t = t.UTC()
				return &t
			}
		}
		// 8 位数字可能是 20240115 这类紧凑格式
		if len(value) != 8 {
			return nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// DayOf 截断到自然日（UTC）
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart 所在周的周一
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// FormatDate YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatYearWeek 周标签，取周一日期
func FormatYearWeek(t time.Time) string {
	return FormatDate(WeekStart(t))
}

// FormatYearMonth YYYY-MM
func FormatYearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// IsBlankRow 整行是否为空
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
