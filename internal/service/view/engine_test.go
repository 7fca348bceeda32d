package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
	"mpoxdash/internal/service/store"
)

func loadTable(t *testing.T, rows [][]string) *model.Table {
	t.Helper()
	table, err := parser.Normalize(parser.RawSheet{
		Name:    "Data",
		Headers: []string{"country", "report_date", "confirmed_cases", "deaths", "clade"},
		Rows:    rows,
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return table
}

func newEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore()
	e := NewEngine(ms)
	e.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	return e, ms
}

func TestEngineNoDataset(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.View(model.Selection{}); !errors.Is(err, store.ErrNoDataset) {
		t.Fatalf("View() err=%v, want ErrNoDataset", err)
	}
}

func TestEngineMemoizesPerSelection(t *testing.T) {
	e, ms := newEngine(t)
	ms.SetTable(loadTable(t, [][]string{
		{"A", "2024-03-01", "100", "5", "Ib"},
		{"B", "2024-03-02", "10", "0", "IIb"},
	}))

	v1, err := e.View(model.Selection{Countries: []string{"A", "B"}})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	v2, _ := e.View(model.Selection{Countries: []string{"B", "A", "A"}})
	if v1 != v2 {
		t.Fatalf("expected memoized view for equivalent selection")
	}
	if got := e.Len(); got != 1 {
		t.Fatalf("Len=%d, want 1", got)
	}

	v3, _ := e.View(model.Selection{Countries: []string{"B"}})
	if v3 == v1 || len(v3.Aggregates) != 1 || v3.Aggregates[0].Country != "B" {
		t.Fatalf("unexpected filtered view: %+v", v3.Aggregates)
	}
	if v3.Description != "Filters → Countries: B" {
		t.Fatalf("Description=%q", v3.Description)
	}
}

func TestEngineDescriptionIgnoresRequestHistory(t *testing.T) {
	e, ms := newEngine(t)
	ms.SetTable(loadTable(t, [][]string{{"A", "2024-03-01", "1", "0", "Ib"}}))

	first, err := e.View(model.Selection{Countries: []string{"A", "A"}})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	second, _ := e.View(model.Selection{Countries: []string{"A"}})

	for _, v := range []*View{first, second} {
		if v.Description != "Filters → Countries: A" {
			t.Fatalf("Description=%q", v.Description)
		}
		if len(v.Selection.Countries) != 1 {
			t.Fatalf("Selection=%+v, want canonical", v.Selection)
		}
	}
}

func TestEngineRecomputesOnNewDay(t *testing.T) {
	e, ms := newEngine(t)
	ms.SetTable(loadTable(t, [][]string{{"A", "2024-03-01", "1", "0", "Ib"}}))
	ms.SetSettings(model.ReportSettings{StaleDays: 39, AnomalyMinWeeks: 6, TopN: 10})

	clock := time.Date(2024, 4, 9, 8, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return clock }

	v1, _ := e.View(model.Selection{})
	if v1.Aggregates[0].Stale {
		t.Fatalf("39 days old should not be stale with a 39 day window")
	}

	clock = clock.Add(4 * time.Hour)
	if v, _ := e.View(model.Selection{}); v != v1 {
		t.Fatalf("same day should reuse the view")
	}

	clock = clock.Add(24 * time.Hour)
	v2, _ := e.View(model.Selection{})
	if v2 == v1 {
		t.Fatalf("expected a recomputed view on the next day")
	}
	if !v2.Aggregates[0].Stale {
		t.Fatalf("40 days old should be stale with a 39 day window")
	}
	if got := *v2.Quality().FreshnessDays; got != 40 {
		t.Fatalf("FreshnessDays=%d, want 40", got)
	}
	if got := e.Len(); got != 1 {
		t.Fatalf("Len=%d, want 1", got)
	}
}

func TestEngineInvalidatesOnNewDataset(t *testing.T) {
	e, ms := newEngine(t)
	ms.SetTable(loadTable(t, [][]string{{"A", "2024-03-01", "100", "5", "Ib"}}))

	v1, _ := e.View(model.Selection{})
	ms.SetTable(loadTable(t, [][]string{{"C", "2024-03-01", "1", "0", ""}}))
	v2, _ := e.View(model.Selection{})

	if v1 == v2 || v2.Version <= v1.Version {
		t.Fatalf("expected recomputed view after dataset swap")
	}
	if _, ok := v2.Country("C"); !ok {
		t.Fatalf("new dataset not reflected")
	}
	if _, ok := v2.Country("A"); ok {
		t.Fatalf("stale aggregate served")
	}
}

func TestEngineEvictsOldest(t *testing.T) {
	e, ms := newEngine(t)
	e.limit = 2
	ms.SetTable(loadTable(t, [][]string{{"A", "2024-03-01", "1", "0", "Ib"}}))

	for _, c := range []string{"A", "B", "C"} {
		if _, err := e.View(model.Selection{Countries: []string{c}}); err != nil {
			t.Fatalf("View: %v", err)
		}
	}
	if got := e.Len(); got != 2 {
		t.Fatalf("Len=%d, want 2", got)
	}
}

func TestViewHelpers(t *testing.T) {
	e, ms := newEngine(t)
	ms.SetTable(loadTable(t, [][]string{
		{"A", "2024-03-01", "9000", "450", "Ib"},
		{"B", "2024-03-02", "10", "0", "IIb"},
	}))

	v, err := e.View(model.Selection{})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if top := v.Top(1); len(top) != 1 || top[0].Country != "A" {
		t.Fatalf("Top(1)=%+v", top)
	}
	if got := len(v.Top(0)); got != 2 {
		t.Fatalf("Top(0) len=%d", got)
	}
	if recs := v.Recommendations(); len(recs) != 2 || recs[0].Country != "A" {
		t.Fatalf("Recommendations=%+v", recs)
	}
	if got := v.Quality().Rows; got != 2 {
		t.Fatalf("Quality rows=%d", got)
	}
	if got := *v.Summary().TotalCases; got != 9010 {
		t.Fatalf("Summary total=%v", got)
	}
	res, err := v.Anomalies(context.Background())
	if err != nil {
		t.Fatalf("Anomalies: %v", err)
	}
	for _, r := range res {
		if r.Status != "insufficient data" {
			t.Fatalf("expected insufficient data for single-week series, got %q", r.Status)
		}
	}
}
