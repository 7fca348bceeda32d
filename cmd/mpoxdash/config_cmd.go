package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"mpoxdash/internal/config"
)

var configDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置文件管理",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成默认 config.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir
		if dir == "" {
			var err error
			if dir, err = config.GetExeDir(); err != nil {
				return err
			}
		}
		path, err := config.SaveConfig(dir, config.DefaultConfig())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成配置文件: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "输出生效的配置（含环境变量与命令行覆盖）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, info, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if info.FromFile {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", info.Path)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configDir, "dir", "", "写入目录 (默认可执行文件目录)")
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

