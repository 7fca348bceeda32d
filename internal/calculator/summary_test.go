package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxdash/internal/model"
)

func TestSummarizeTotalsAndHighlights(t *testing.T) {
	fields := []model.Field{
		model.FieldCountry, model.FieldConfirmedCases, model.FieldDeaths,
		model.FieldVaccineDoseAllocated, model.FieldVaccinationsAdministered, model.FieldDeployedCHWs,
	}
	table := newTable(fields,
		model.Record{Country: "A", ConfirmedCases: f(100), Deaths: f(5), VaccineDoseAllocated: f(1000),
			VaccinationsAdministered: f(500), DeployedCHWs: f(10)},
		model.Record{Country: "B", ConfirmedCases: f(300), Deaths: f(3), VaccineDoseAllocated: f(100),
			VaccinationsAdministered: f(90), DeployedCHWs: f(200)},
	)

	s := Summarize(table)
	assert.Equal(t, 400.0, *s.TotalCases)
	assert.Equal(t, 8.0, *s.TotalDeaths)
	assert.InDelta(t, 2, *s.OverallCFR, 1e-9)
	assert.Equal(t, 2, s.Countries)
	assert.InDelta(t, 200, *s.AvgCasesPerCountry, 1e-9)
	assert.Equal(t, "B", s.TopCountry)
	assert.Equal(t, 300.0, *s.TopCountryCases)
	assert.Equal(t, 1100.0, *s.TotalAllocated)
	assert.Equal(t, 590.0, *s.TotalAdministered)
	assert.InDelta(t, 590.0/1100*100, *s.UptakeRatePct, 1e-9)
	assert.Equal(t, model.TrendInsufficient, s.Trend)
	assert.Equal(t, []string{
		"Immediate clinical intervention needed in 1 countries with CFR >3%",
		"Vaccine rollout optimization needed in 1 countries",
		"CHW deployment expansion needed in 1 countries",
	}, s.Highlights)
}

func TestSummarizeWithoutCases(t *testing.T) {
	table := newTable([]model.Field{model.FieldCountry}, model.Record{Country: "A"})

	s := Summarize(table)
	assert.Nil(t, s.TotalCases)
	assert.Nil(t, s.OverallCFR)
	assert.Nil(t, s.AvgCasesPerCountry)
	assert.Empty(t, s.TopCountry)
	assert.Equal(t, 1, s.Countries)
	assert.NotNil(t, s.Highlights)
	assert.Empty(t, s.Highlights)
}

func dailyTable(values map[int]float64) *model.Table {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var records []model.Record
	for offset, v := range values {
		d := start.AddDate(0, 0, offset)
		records = append(records, model.Record{Country: "A", ReportDate: &d, ConfirmedCases: f(v)})
	}
	return newTable([]model.Field{model.FieldCountry, model.FieldReportDate, model.FieldConfirmedCases}, records...)
}

func TestDailyTrend(t *testing.T) {
	rising := map[int]float64{}
	flat := map[int]float64{}
	falling := map[int]float64{}
	for i := 0; i < 21; i++ {
		flat[i] = 10
		rising[i] = 10
		falling[i] = 30
		if i >= 14 {
			rising[i] = 30
			falling[i] = 10
		}
	}

	assert.Equal(t, model.TrendIncreasing, DailyTrend(dailyTable(rising)))
	assert.Equal(t, model.TrendDecreasing, DailyTrend(dailyTable(falling)))
	assert.Equal(t, model.TrendStable, DailyTrend(dailyTable(flat)))
}

func TestDailyTrendFillsMissingDays(t *testing.T) {
	got := DailyTrend(dailyTable(map[int]float64{0: 70, 20: 70}))
	assert.Equal(t, model.TrendIncreasing, got)
}

func TestDailyTrendNeedsMoreThanTwoWeeks(t *testing.T) {
	days := map[int]float64{}
	for i := 0; i < 14; i++ {
		days[i] = float64(i)
	}
	assert.Equal(t, model.TrendInsufficient, DailyTrend(dailyTable(days)))

	require.Equal(t, model.TrendInsufficient, DailyTrend(newTable([]model.Field{model.FieldCountry})))
}
