package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mpoxdash/internal/config"
	"mpoxdash/internal/logger"
)

var (
	// 全局参数
	dataDir  string
	dataset  string
	sheet    string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mpoxdash",
	Short: "mpox 疫情监测仪表盘",
	Long: `mpoxdash 读取国家周报数据（xlsx/csv），计算各国病例负担、疫苗与社区卫生人员缺口，
给出优先级评分、干预建议、异常周与数据质量报告。

不带子命令时等同于 serve。`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "dataDir", "", "数据目录 (覆盖配置文件)")
	rootCmd.PersistentFlags().StringVarP(&dataset, "file", "f", "", "数据集路径 xlsx/csv (覆盖配置文件)")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "", "指定工作表，留空自动识别")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 debug/info/warn/error")

	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd, configCmd)
}

// loadConfig 读取配置并应用命令行覆盖
func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		return nil, info, fmt.Errorf("load config: %w", err)
	}

	if dataDir != "" {
		cfg.Data.DataDir = dataDir
	}
	if dataset != "" {
		cfg.Data.DatasetPath = dataset
	}
	if sheet != "" {
		cfg.Data.Sheet = sheet
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logFile := ""
	if cfg.Log.File != "" {
		logFile = config.ResolvePath(cfg.Log.File)
	}
	if err := logger.InitLogger(cfg.Log.Level, logFile); err != nil {
		return nil, info, fmt.Errorf("init logger: %w", err)
	}
	return cfg, info, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
