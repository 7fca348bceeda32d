package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

func sampleTable(t *testing.T) *model.Table {
	t.Helper()
	table, err := parser.Normalize(parser.RawSheet{
		Headers: []string{"country", "report_date", "confirmed_cases", "clade", "surveillance_notes"},
		Rows: [][]string{
			{"DRC", "2024-01-01", "100", "Ib", "cluster"},
			{"DRC", "2024-01-08", "120", "Ib", ""},
			{"Uganda", "2024-01-08", "10", "", "imported"},
			{"Kenya", "", "4", "Ia", ""},
			{"Burundi", "2024-02-01", "30", "Ib", "cluster"},
		},
	})
	require.NoError(t, err)
	return table
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func countries(t *model.Table) []string {
	out := make([]string, 0, len(t.Records))
	for _, r := range t.Records {
		out = append(out, r.Country)
	}
	return out
}

func TestApply_EmptySelectionEqualsTable(t *testing.T) {
	table := sampleTable(t)
	out, desc := Apply(table, model.Selection{})

	assert.Equal(t, table.Records, out.Records)
	assert.Equal(t, "Showing all data (no filters applied).", desc)
}

func TestApply_DateRangeInclusiveAndExcludesUnknown(t *testing.T) {
	table := sampleTable(t)
	sel := model.Selection{DateRange: &model.DateRange{Start: day("2024-01-01"), End: day("2024-01-08")}}

	out, _ := Apply(table, sel)
	assert.Equal(t, []string{"DRC", "DRC", "Uganda"}, countries(out))
}

func TestApply_DimensionsAreANDed(t *testing.T) {
	table := sampleTable(t)

	out, _ := Apply(table, model.Selection{Countries: []string{"DRC", "Burundi"}, Notes: []string{"cluster"}})
	assert.Equal(t, []string{"DRC", "Burundi"}, countries(out))

	out, _ = Apply(table, model.Selection{Clades: []string{model.UnknownClade}})
	assert.Equal(t, []string{"Uganda"}, countries(out), "blank clade matches the Unknown label")
}

func TestApply_AbsentColumnIgnored(t *testing.T) {
	table, err := parser.Normalize(parser.RawSheet{
		Headers: []string{"country", "cases"},
		Rows:    [][]string{{"A", "1"}, {"B", "2"}},
	})
	require.NoError(t, err)

	out, desc := Apply(table, model.Selection{
		DateRange: &model.DateRange{Start: day("2024-01-01"), End: day("2024-01-02")},
		Clades:    []string{"Ib"},
	})
	assert.Equal(t, []string{"A", "B"}, countries(out))
	assert.Contains(t, desc, "Date: 2024-01-01 → 2024-01-02")
}

func TestApply_IdempotentAndMonotonic(t *testing.T) {
	table := sampleTable(t)
	narrow := model.Selection{Countries: []string{"DRC"}, Clades: []string{"Ib"}}
	wide := model.Selection{Countries: []string{"DRC", "Uganda"}, Clades: []string{"Ib", model.UnknownClade}}

	once, _ := Apply(table, narrow)
	twice, _ := Apply(once, narrow)
	assert.Equal(t, once.Records, twice.Records)

	wider, _ := Apply(table, wide)
	assert.Subset(t, countries(wider), countries(once))
	assert.GreaterOrEqual(t, len(wider.Records), len(once.Records))
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	table := sampleTable(t)
	before := table.Records[0].Clone()

	out, _ := Apply(table, model.Selection{Countries: []string{"DRC"}})
	*out.Records[0].ConfirmedCases = 999
	out.Records[0].Country = "changed"
	out.Schema.Fields[model.FieldDeaths] = true

	assert.Equal(t, before, table.Records[0])
	assert.False(t, table.Schema.Has(model.FieldDeaths))
}

func TestDescribe(t *testing.T) {
	sel := model.Selection{
		DateRange: &model.DateRange{Start: day("2024-01-01"), End: day("2024-03-31")},
		Countries: []string{"g", "f", "e", "d", "c", "b", "a"},
		Clades:    []string{"Ib", "Ia"},
		Notes:     []string{"x"},
	}
	want := "Filters → Date: 2024-01-01 → 2024-03-31 | Countries: a, b, c, d, e… | Clades: Ia, Ib | Surveillance notes filter applied"
	assert.Equal(t, want, Describe(sel))
	assert.Equal(t, want, Describe(sel), "description is deterministic")
	assert.Equal(t, []string{"g", "f", "e", "d", "c", "b", "a"}, sel.Countries, "input order untouched")

	assert.Equal(t, "Filters → Countries: a, b, c, d, e", Describe(model.Selection{Countries: []string{"e", "d", "c", "b", "a"}}))
}

func TestDescribe_DuplicatesAndOpenRange(t *testing.T) {
	assert.Equal(t, "Filters → Countries: A", Describe(model.Selection{Countries: []string{"A", "A"}}))
	assert.Equal(t, "Filters → Clades: Ia, Ib", Describe(model.Selection{Clades: []string{"Ib", "Ia", "Ib"}}))

	open := model.Selection{DateRange: &model.DateRange{Start: model.OpenStart, End: day("2024-01-31")}}
	assert.Equal(t, "Filters → Date: … → 2024-01-31", Describe(open))

	open = model.Selection{DateRange: &model.DateRange{Start: day("2024-01-01"), End: model.OpenEnd}}
	assert.Equal(t, "Filters → Date: 2024-01-01 → …", Describe(open))
}

func TestOptions(t *testing.T) {
	opts := Options(sampleTable(t))

	assert.Equal(t, []string{"Burundi", "DRC", "Kenya", "Uganda"}, opts.Countries)
	assert.Equal(t, []string{"Ia", "Ib", model.UnknownClade}, opts.Clades)
	assert.Equal(t, []string{"cluster", "imported"}, opts.Notes)
	require.NotNil(t, opts.MinDate)
	assert.Equal(t, "2024-01-01", parser.FormatDate(*opts.MinDate))
	assert.Equal(t, "2024-02-01", parser.FormatDate(*opts.MaxDate))

	empty := Options(nil)
	assert.Empty(t, empty.Countries)
	assert.Nil(t, empty.MinDate)
}
