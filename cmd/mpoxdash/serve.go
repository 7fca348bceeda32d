package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mpoxdash/internal/importer"
	"mpoxdash/internal/logger"
	"mpoxdash/internal/server"
	"mpoxdash/internal/util"
)

var (
	port        int
	devMode     bool
	openBrowser bool
	noWatch     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动仪表盘 HTTP 服务",
	Long: `启动 HTTP 服务并加载配置中的默认数据集。
数据集可以在运行中通过 POST /api/import 上传替换；
开启 data.watch 时，默认数据集文件变化后自动重新加载。`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "启动后打开浏览器")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "不监听默认数据集变化")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, info, err := loadConfig()
	if err != nil {
		return err
	}

	// 命令行参数覆盖配置
	if port > 0 && !info.PortSpecified {
		cfg.Server.Port = port
	}
	if devMode {
		cfg.Server.DevMode = true
	}
	if noWatch {
		cfg.Data.Watch = false
	}

	log := logger.Log.WithFields(logrus.Fields{
		"config":   info.Path,
		"fromFile": info.FromFile,
	})
	if len(info.EnvOverrides) > 0 {
		log = log.WithField("env", info.EnvOverrides)
	}
	log.Info("配置已加载")

	rt, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 默认数据集加载失败不阻止启动，可通过接口上传
	if path := rt.datasetPath(); path != "" {
		if _, err := rt.loadDefault(); err != nil {
			logger.Log.WithError(err).WithField("path", path).Warn("默认数据集加载失败")
		}
		if cfg.Data.Watch {
			w := rt.coordinator.Watch(path, func(_ *importer.LoadResult, err error) {
				if err != nil {
					logger.Log.WithError(err).Warn("重新加载失败，保留当前数据集")
				}
			})
			if err := w.Start(ctx); err != nil {
				logger.Log.WithError(err).Warn("文件监听启动失败")
			}
		}
	} else {
		logger.Log.Info("未配置默认数据集，等待上传")
	}

	srv := server.NewServer(cfg, rt.store, rt.memory, rt.coordinator)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := util.ServerURL(cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("服务启动中")
		errCh <- srv.Run(addr)
	}()

	if openBrowser && !cfg.Server.DevMode {
		if err := util.OpenURL(url); err != nil {
			logger.Log.WithError(err).Warn("打开浏览器失败")
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
