package util

import (
	"math"
	"strconv"
)

// Unknown 未知值的展示文本
const Unknown = "n/a"

// FormatNumber 保留 digits 位小数，nil 显示为 n/a
func FormatNumber(v *float64, digits int) string {
	if v == nil || math.IsNaN(*v) {
		return Unknown
	}
	return strconv.FormatFloat(*v, 'f', digits, 64)
}

// FormatPercent 百分比数值（已乘 100），nil 显示为 n/a
func FormatPercent(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Unknown
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + "%"
}

// FormatSignedPercent 带符号的比例（0.25 → +25.00%）
func FormatSignedPercent(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Unknown
	}
	sign := ""
	if *v > 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(*v*100, 'f', 2, 64) + "%"
}
