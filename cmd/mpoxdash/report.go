package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"mpoxdash/internal/calculator"
	"mpoxdash/internal/service/view"
	"mpoxdash/internal/util"
)

var (
	reportSel selectionFlags
	reportTop int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "在终端输出国家优先级排名",
	Long: `加载数据集，按过滤条件计算各国指标，以表格输出优先级最高的国家，
并附上执行摘要。

示例:
  mpoxdash report -f data/mpox.xlsx --top 5 --country Uganda --country Kenya`,
	RunE: runReport,
}

func init() {
	addSelectionFlags(reportCmd, &reportSel)
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "输出前 N 个国家 (默认取 report.top_n)")
}

func addSelectionFlags(cmd *cobra.Command, f *selectionFlags) {
	cmd.Flags().StringVar(&f.start, "start", "", "开始日期 YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "结束日期 YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.countries, "country", nil, "国家 (可重复)")
	cmd.Flags().StringSliceVar(&f.clades, "clade", nil, "毒株分支 (可重复)")
	cmd.Flags().StringSliceVar(&f.notes, "note", nil, "监测备注 (可重复)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	sel, err := reportSel.toSelection()
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

	top := reportTop
	if top <= 0 {
		top = cfg.Report.TopN
	}
	renderReport(cmd.OutOrStdout(), v, top)
	return nil
}

// renderReport 输出排名表与执行摘要
func renderReport(w io.Writer, v *view.View, top int) {
	fmt.Fprintln(w, v.Description)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Country", "Score", "Cases", "Deaths", "CFR", "CHW/case", "Growth 4W", "Flags"})
	table.SetAutoWrapText(false)
	for i, a := range v.Top(top) {
		table.Append([]string{
			strconv.Itoa(i + 1),
			a.Country,
			strconv.FormatFloat(a.PriorityScore, 'f', 2, 64),
			util.FormatNumber(a.TotalCases, 0),
			util.FormatNumber(a.TotalDeaths, 0),
			util.FormatPercent(a.CFRPercent),
			util.FormatNumber(a.DeployedPerCase, 4),
			util.FormatSignedPercent(a.Growth4W),
			strings.Join(calculator.Flags(a), ", "),
		})
	}
	table.Render()

	s := v.Summary()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Countries: %d  Total cases: %s  Overall CFR: %s  Trend: %s\n",
		s.Countries, util.FormatNumber(s.TotalCases, 0), util.FormatPercent(s.OverallCFR), s.Trend)
	for _, h := range s.Highlights {
		fmt.Fprintf(w, "  - %s\n", h)
	}
}
