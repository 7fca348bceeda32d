package filter

import (
	"strings"
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

const (
	maxListed     = 5
	noFiltersNote = "Showing all data (no filters applied)."
)

// Describe 生成条件描述，同一条件输出稳定
func Describe(sel model.Selection) string {
	var parts []string
	if sel.DateRange != nil {
		parts = append(parts, "Date: "+dateBound(sel.DateRange.Start, sel.DateRange.StartOpen())+" → "+dateBound(sel.DateRange.End, sel.DateRange.EndOpen()))
	}
	if len(sel.Countries) > 0 {
		parts = append(parts, "Countries: "+listValues(sel.Countries))
	}
	if len(sel.Clades) > 0 {
		parts = append(parts, "Clades: "+listValues(sel.Clades))
	}
	if len(sel.Notes) > 0 {
		parts = append(parts, "Surveillance notes filter applied")
	}
	if len(parts) == 0 {
		return noFiltersNote
	}
	return "Filters → " + strings.Join(parts, " | ")
}

// dateBound 不限的一端显示为 …
func dateBound(t time.Time, open bool) string {
	if open {
		return "…"
	}
	return parser.FormatDate(t)
}

// listValues 去重排序后最多列出 5 个，超出以 … 结尾
func listValues(values []string) string {
	sorted := model.CanonicalValues(values)
	if len(sorted) <= maxListed {
		return strings.Join(sorted, ", ")
	}
	return strings.Join(sorted[:maxListed], ", ") + "…"
}
