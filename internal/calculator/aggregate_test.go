package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxdash/internal/model"
)

var fullFields = []model.Field{
	model.FieldCountry, model.FieldReportDate, model.FieldConfirmedCases, model.FieldDeaths,
	model.FieldVaccineDoseAllocated, model.FieldVaccineDoseDeployed, model.FieldVaccinationsAdministered,
	model.FieldDeployedCHWs, model.FieldTrainedCHWs, model.FieldActiveSurveillanceSites,
	model.FieldTestingLaboratories, model.FieldVaccineCoverage,
}

func TestAggregateSumsAndRatios(t *testing.T) {
	table := newTable(fullFields,
		model.Record{Country: "A", ReportDate: day("2024-03-01"), ConfirmedCases: f(100), Deaths: f(5),
			DeployedCHWs: f(50), TrainedCHWs: f(80), ActiveSurveillanceSites: f(2),
			VaccineDoseAllocated: f(600), VaccineDoseDeployed: f(500), VaccinationsAdministered: f(200),
			VaccineCoverage: f(12)},
		model.Record{Country: "A", ReportDate: day("2024-03-08"), ConfirmedCases: f(100), Deaths: f(5),
			DeployedCHWs: f(50), VaccineDoseAllocated: f(400), VaccineDoseDeployed: f(300),
			VaccinationsAdministered: f(300), VaccineCoverage: f(9)},
	)

	aggs := AggregateAt(table, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 28)
	require.Len(t, aggs, 1)
	a := aggs[0]

	assert.Equal(t, "A", a.Country)
	assert.Equal(t, 2, a.Rows)
	assert.Equal(t, 200.0, *a.TotalCases)
	assert.Equal(t, 10.0, *a.TotalDeaths)
	assert.InDelta(t, 5, *a.CFRPercent, 1e-9)
	assert.InDelta(t, 0.5, *a.DeployedPerCase, 1e-9)
	assert.InDelta(t, 0.4, *a.TrainedPerCase, 1e-9)
	assert.InDelta(t, 0.01, *a.SurveillancePerCase, 1e-9, "labs unknown, sites used alone")
	assert.InDelta(t, 50, *a.UptakeRatePct, 1e-9)
	assert.InDelta(t, 80, *a.DeploymentRatePct, 1e-9)
	assert.InDelta(t, 62.5, *a.AdministrationRatePct, 1e-9)
	assert.InDelta(t, 5000, *a.AllocationPer1000, 1e-9)
	assert.Equal(t, 200.0, *a.UndeployedStock)
	assert.Equal(t, 300.0, *a.InCountryNotAdministered)
	assert.Equal(t, 12.0, *a.LatestCoverage)
	assert.Nil(t, a.Labs)
	assert.Nil(t, a.Growth4W)
	assert.Equal(t, "2024-03-08", a.LastReport.Format("2006-01-02"))
	assert.False(t, a.Stale)
	assert.InDelta(t, Score(a), a.PriorityScore, 1e-9)
}

func TestAggregateZeroCasesGivesUnknownRatios(t *testing.T) {
	table := newTable(fullFields,
		model.Record{Country: "Z", ConfirmedCases: f(0), Deaths: f(0), DeployedCHWs: f(4),
			ActiveSurveillanceSites: f(1), TestingLaboratories: f(1), VaccineDoseAllocated: f(10)},
	)

	a := Aggregate(table)[0]
	assert.Nil(t, a.CFRPercent)
	assert.Nil(t, a.DeployedPerCase)
	assert.Nil(t, a.SurveillancePerCase)
	assert.Nil(t, a.AllocationPer1000)
	assert.GreaterOrEqual(t, a.PriorityScore, 0.0)
}

func TestAggregateAbsentColumnsStayUnknown(t *testing.T) {
	table := newTable([]model.Field{model.FieldCountry, model.FieldConfirmedCases},
		model.Record{Country: "A", ConfirmedCases: f(10), Deaths: f(3)},
		model.Record{Country: "A", ConfirmedCases: nil},
	)

	a := Aggregate(table)[0]
	assert.Equal(t, 10.0, *a.TotalCases)
	assert.Nil(t, a.TotalDeaths, "deaths column absent from schema")
	assert.Nil(t, a.CFRPercent)
	assert.Nil(t, a.Allocated)
}

func TestAggregateSkipsUnknownCountryAndSorts(t *testing.T) {
	table := newTable(fullFields,
		model.Record{Country: "", ConfirmedCases: f(99999)},
		model.Record{Country: "Low", ConfirmedCases: f(10)},
		model.Record{Country: "High", ConfirmedCases: f(10000), Deaths: f(600)},
		model.Record{Country: "Also low", ConfirmedCases: f(10)},
	)

	aggs := Aggregate(table)
	require.Len(t, aggs, 3)
	assert.Equal(t, "High", aggs[0].Country)
	assert.Equal(t, "Also low", aggs[1].Country, "ties broken by country name")
	assert.Equal(t, "Low", aggs[2].Country)
}

func TestAggregateStaleWindow(t *testing.T) {
	table := newTable(fullFields,
		model.Record{Country: "Old", ReportDate: day("2024-01-01"), ConfirmedCases: f(1)},
		model.Record{Country: "New", ReportDate: day("2024-02-20"), ConfirmedCases: f(1)},
	)

	aggs := AggregateAt(table, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 28)
	old, ok := Find(aggs, "Old")
	require.True(t, ok)
	assert.True(t, old.Stale)

	fresh, ok := Find(aggs, "New")
	require.True(t, ok)
	assert.False(t, fresh.Stale)

	_, ok = Find(aggs, "Missing")
	assert.False(t, ok)
}

func TestAggregateWithoutCountryColumn(t *testing.T) {
	table := newTable([]model.Field{model.FieldConfirmedCases}, model.Record{ConfirmedCases: f(5)})
	assert.Empty(t, Aggregate(table))
	assert.Empty(t, Aggregate(nil))
}

func TestAggregateGrowthFromWeeklyCases(t *testing.T) {
	fields := []model.Field{model.FieldCountry, model.FieldReportDate, model.FieldWeeklyNewCases}
	table := newTable(fields,
		model.Record{Country: "G", ReportDate: day("2024-01-01"), WeeklyNewCases: f(10)},
		model.Record{Country: "G", ReportDate: day("2024-01-08"), WeeklyNewCases: f(12)},
		model.Record{Country: "G", ReportDate: day("2024-01-15"), WeeklyNewCases: f(15)},
		model.Record{Country: "G", ReportDate: day("2024-01-22"), WeeklyNewCases: f(20)},
	)

	a := Aggregate(table)[0]
	require.NotNil(t, a.Growth4W)
	assert.InDelta(t, 1.0, *a.Growth4W, 1e-9)
}
