package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mpoxdash/internal/config"
	"mpoxdash/internal/exporter"
	"mpoxdash/internal/logger"
	"mpoxdash/internal/service/view"
)

var (
	exportSel selectionFlags
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出国家指标、过滤明细与数据质量到 Excel",
	RunE:  runExport,
}

func init() {
	addSelectionFlags(exportCmd, &exportSel)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "输出文件 (默认 <dataDir>/exports/mpox-dashboard-<时间>.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	sel, err := exportSel.toSelection()
	if err != nil {
		return err
	}

	rt, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.loadDefault(); err != nil {
		return err
	}
	v, err := view.NewEngine(rt.memory).View(sel)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		if _, err := config.EnsureDataDir(cfg); err != nil {
			return fmt.Errorf("ensure data dir: %w", err)
		}
		out = config.GetDataPath(cfg, "exports", exporter.Filename(time.Now()))
	}

	err = exporter.NewExporter().ExportToFile(out, exporter.ExportOptions{
		Table:       v.Table,
		Aggregates:  v.Aggregates,
		Quality:     v.Quality(),
		Description: v.Description,
		Progress: func(p exporter.ProgressEvent) {
			logger.Log.WithField("percent", p.Percent).Debug(p.Stage)
		},
	})
	if err != nil {
		return err
	}

	abs, _ := filepath.Abs(out)
	fmt.Fprintf(cmd.OutOrStdout(), "已导出 %d 行到 %s\n", v.Table.Len(), abs)
	return nil
}
