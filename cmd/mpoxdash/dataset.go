package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mpoxdash/internal/config"
	"mpoxdash/internal/importer"
	"mpoxdash/internal/model"
	memstore "mpoxdash/internal/service/store"
	"mpoxdash/internal/store"
)

// errNoDataset 未指定数据集
var errNoDataset = errors.New("no dataset: pass --file or set data.dataset_path")

// app 一次命令执行所需的组件
type app struct {
	cfg         *config.AppConfig
	store       *store.Store
	memory      *memstore.MemoryStore
	loader      *importer.Loader
	coordinator *importer.Coordinator
}

// newApp 组装存储与导入组件；withStore 为 false 时不打开 SQLite
func newApp(cfg *config.AppConfig, withStore bool) (*app, error) {
	rt := &app{
		cfg:    cfg,
		memory: memstore.NewMemoryStore(),
		loader: importer.NewLoader(importer.NewCache(), cfg.Data.Sheet),
	}
	rt.memory.SetSettings(cfg.ReportSettings())

	if withStore {
		dir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
		st, err := store.New(filepath.Join(dir, "mpoxdash.db"))
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.store = st
	}
	rt.coordinator = importer.NewCoordinator(rt.loader, rt.store, rt.memory)
	return rt, nil
}

// datasetPath 配置中的数据集路径（相对路径以可执行文件目录为基准）
func (rt *app) datasetPath() string {
	return config.ResolvePath(rt.cfg.Data.DatasetPath)
}

// loadDefault 加载配置中的数据集并设为当前
func (rt *app) loadDefault() (*importer.LoadResult, error) {
	path := rt.datasetPath()
	if path == "" {
		return nil, errNoDataset
	}
	return rt.coordinator.Load(importer.ImportOptions{FilePath: path, Activate: true})
}

func (rt *app) Close() error {
	if rt.store == nil {
		return nil
	}
	return rt.store.Close()
}

// selectionFlags 过滤条件参数
type selectionFlags struct {
	start     string
	end       string
	countries []string
	clades    []string
	notes     []string
}

// toSelection 转换为过滤条件，只给一端日期时另一端不限
func (f selectionFlags) toSelection() (model.Selection, error) {
	sel := model.Selection{
		Countries: trimAll(f.countries),
		Clades:    trimAll(f.clades),
		Notes:     trimAll(f.notes),
	}
	if f.start == "" && f.end == "" {
		return sel, nil
	}

	r := model.DateRange{Start: model.OpenStart, End: model.OpenEnd}
	var err error
	if f.start != "" {
		if r.Start, err = time.Parse("2006-01-02", f.start); err != nil {
			return sel, fmt.Errorf("invalid --start %q: %w", f.start, err)
		}
	}
	if f.end != "" {
		if r.End, err = time.Parse("2006-01-02", f.end); err != nil {
			return sel, fmt.Errorf("invalid --end %q: %w", f.end, err)
		}
	}
	if r.End.Before(r.Start) {
		return sel, fmt.Errorf("--end %s is before --start %s", f.end, f.start)
	}
	sel.DateRange = &r
	return sel, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
