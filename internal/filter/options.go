package filter

import (
	"sort"
	"time"

	"mpoxdash/internal/model"
)

// Options 过滤控件的可选值
func Options(table *model.Table) model.FilterOptions {
	opts := model.FilterOptions{
		Countries: []string{},
		Clades:    []string{},
		Notes:     []string{},
	}
	if table == nil {
		return opts
	}

	countries := make(map[string]bool)
	clades := make(map[string]bool)
	notes := make(map[string]bool)
	var minDate, maxDate *time.Time

	hasClade := table.Schema.Has(model.FieldClade)
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Country != "" {
			countries[rec.Country] = true
		}
		if hasClade {
			clades[rec.CladeLabel()] = true
		}
		if rec.SurveillanceNotes != "" {
			notes[rec.SurveillanceNotes] = true
		}
		if d := rec.ReportDate; d != nil {
			if minDate == nil || d.Before(*minDate) {
				minDate = d
			}
			if maxDate == nil || d.After(*maxDate) {
				maxDate = d
			}
		}
	}

	opts.Countries = sortedKeys(countries)
	opts.Clades = sortedKeys(clades)
	opts.Notes = sortedKeys(notes)
	if minDate != nil {
		lo, hi := *minDate, *maxDate
		opts.MinDate, opts.MaxDate = &lo, &hi
	}
	return opts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
