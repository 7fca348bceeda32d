package importer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"mpoxdash/internal/logger"
	"mpoxdash/internal/model"
	memstore "mpoxdash/internal/service/store"
	"mpoxdash/internal/store"
)

// Coordinator 导入协调器：加载数据源、记录加载日志、切换当前数据集
type Coordinator struct {
	loader *Loader
	store  *store.Store // 可为 nil，此时不记录日志
	memory *memstore.MemoryStore
}

// NewCoordinator 创建导入协调器
func NewCoordinator(loader *Loader, store *store.Store, memory *memstore.MemoryStore) *Coordinator {
	return &Coordinator{
		loader: loader,
		store:  store,
		memory: memory,
	}
}

// ImportOptions 导入选项，FilePath 与 Data 二选一
type ImportOptions struct {
	FilePath string
	Filename string // 上传文件名
	Data     []byte
	Activate bool // 成功后替换当前数据集
}

func (o ImportOptions) name() string {
	if o.Filename != "" {
		return o.Filename
	}
	return filepath.Base(o.FilePath)
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Timestamp time.Time   `json:"timestamp"`
}

// Import 异步执行导入，返回进度通道
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 16)

	go func() {
		defer close(progressChan)

		progressChan <- ProgressEvent{
			Type:      "start",
			Message:   "开始加载数据集",
			Data:      map[string]string{"filename": opts.name()},
			Timestamp: time.Now(),
		}

		result, err := c.Load(opts)
		if err != nil {
			progressChan <- ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("加载失败: %v", err),
				Timestamp: time.Now(),
			}
			return
		}

		if len(result.Report.Sheets) > 1 {
			progressChan <- ProgressEvent{
				Type:      "info",
				Message:   fmt.Sprintf("发现 %d 个 Sheet，使用 %s", len(result.Report.Sheets), result.Report.Sheet),
				Data:      result.Report.Sheets,
				Timestamp: time.Now(),
			}
		}
		progressChan <- ProgressEvent{
			Type:      "done",
			Message:   "加载完成",
			Data:      map[string]any{"report": result.Report, "rows": result.Table.Len(), "cached": result.Cached},
			Timestamp: time.Now(),
		}
	}()

	return progressChan
}

// Load 同步执行导入
func (c *Coordinator) Load(opts ImportOptions) (*LoadResult, error) {
	entry := &model.ImportLog{
		Filename: opts.name(),
		FilePath: opts.FilePath,
		FileSize: int64(len(opts.Data)),
	}
	if c.store != nil {
		if err := c.store.CreateImportLog(entry); err != nil {
			logger.Log.WithError(err).Warn("记录加载日志失败")
		}
	}

	var (
		result *LoadResult
		err    error
	)
	if opts.Data != nil {
		result, err = c.loader.LoadBytes(opts.name(), opts.Data)
	} else {
		result, err = c.loader.LoadFile(opts.FilePath)
	}

	c.finishLog(entry, result, err)
	if err != nil {
		return nil, err
	}

	if opts.Activate && c.memory != nil {
		version := c.memory.SetTable(result.Table)
		logger.Log.WithFields(logrus.Fields{
			"file":    result.Report.Filename,
			"rows":    result.Table.Len(),
			"version": version,
			"cached":  result.Cached,
		}).Info("当前数据集已切换")

		if c.store != nil {
			ref := store.DatasetRef{Path: opts.FilePath, Name: result.Report.Filename, Hash: result.Report.Hash}
			if err := c.store.SetCurrentDataset(ref); err != nil {
				logger.Log.WithError(err).Warn("记录当前数据集失败")
			}
		}
	}
	return result, nil
}

// Watch 监听数据文件，变化后按 Load 流程重新导入：记录加载日志并切换当前数据集
// 加载失败时保留当前数据集
func (c *Coordinator) Watch(path string, onReload ReloadFunc) *Watcher {
	w := NewWatcher(path, c.loader, onReload)
	w.load = func(p string) (*LoadResult, error) {
		return c.Load(ImportOptions{FilePath: p, Activate: true})
	}
	return w
}

func (c *Coordinator) finishLog(entry *model.ImportLog, result *LoadResult, loadErr error) {
	if c.store == nil || entry.ID == "" {
		return
	}

	if loadErr != nil {
		entry.Status = model.ImportError
		entry.ErrorMessage = loadErr.Error()
	} else {
		r := result.Report
		entry.Status = model.ImportSuccess
		if result.Cached {
			entry.Status = model.ImportCached
		}
		entry.FileHash = r.Hash
		entry.FileSize = r.Size
		entry.Sheet = r.Sheet
		entry.TotalRows = r.Stats.TotalRows
		entry.ImportedRows = result.Table.Len()
		entry.BlankRows = r.Stats.BlankRows
		entry.InvalidCells = r.Stats.InvalidCells
		entry.UnmappedColumns = r.Unmapped
		for _, m := range r.Mapped {
			entry.MappedColumns = append(entry.MappedColumns, string(m.Field))
		}
	}

	if err := c.store.FinishImportLog(entry); err != nil {
		logger.Log.WithError(err).Warn("更新加载日志失败")
	}
}
