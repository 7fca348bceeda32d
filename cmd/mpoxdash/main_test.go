package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpoxdash/internal/config"
	"mpoxdash/internal/model"
	memstore "mpoxdash/internal/service/store"
	"mpoxdash/internal/service/view"
)

func TestSelectionFlags(t *testing.T) {
	sel, err := selectionFlags{countries: []string{" Uganda ", ""}}.toSelection()
	require.NoError(t, err)
	assert.Equal(t, []string{"Uganda"}, sel.Countries)
	assert.Nil(t, sel.DateRange)

	sel, err = selectionFlags{start: "2024-03-01"}.toSelection()
	require.NoError(t, err)
	require.NotNil(t, sel.DateRange)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sel.DateRange.Start)
	assert.Equal(t, 9999, sel.DateRange.End.Year())

	_, err = selectionFlags{start: "2024-03-10", end: "2024-03-01"}.toSelection()
	assert.Error(t, err)

	_, err = selectionFlags{end: "10/03/2024"}.toSelection()
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	memory := memstore.NewMemoryStore()
	schema := model.NewSchema()
	schema.Fields[model.FieldCountry] = true
	schema.Fields[model.FieldConfirmedCases] = true
	schema.Fields[model.FieldDeaths] = true
	memory.SetTable(&model.Table{
		Schema: schema,
		Records: []model.Record{
			{Country: "Alpha", ConfirmedCases: model.Float(9000), Deaths: model.Float(450)},
			{Country: "Beta", ConfirmedCases: model.Float(10), Deaths: model.Float(0)},
		},
	})

	v, err := view.NewEngine(memory).View(model.Selection{})
	require.NoError(t, err)

	var buf bytes.Buffer
	renderReport(&buf, v, 1)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Showing all data (no filters applied)."))
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta", "only the top country is listed")
	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "Countries: 2")
}

func TestConfigInitCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--dir", dir})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	path := filepath.Join(dir, config.FileName)
	assert.Contains(t, out.String(), path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	cfg, info, err := config.LoadFromDir(dir)
	require.NoError(t, err)
	assert.True(t, info.FromFile)
	assert.Equal(t, config.DefaultConfig().Server.Port, cfg.Server.Port)
}
