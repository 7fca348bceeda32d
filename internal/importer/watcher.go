package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"mpoxdash/internal/logger"
)

// ReloadFunc 数据文件变化后的回调
type ReloadFunc func(result *LoadResult, err error)

// Watcher 监听默认数据文件，变化后使缓存失效并重新加载
// 监听所在目录而不是文件本身，兼容编辑器先写临时文件再重命名的保存方式
type Watcher struct {
	path     string
	cache    *Cache
	load     func(path string) (*LoadResult, error)
	onReload ReloadFunc
	debounce time.Duration

	mu      sync.Mutex
	pending bool
	lastEvt time.Time
	running bool
	doneCh  chan struct{}
}

// NewWatcher 创建文件监听，重新加载只经过 loader，不切换当前数据集
func NewWatcher(path string, loader *Loader, onReload ReloadFunc) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		cache:    loader.Cache(),
		load:     loader.LoadFile,
		onReload: onReload,
		debounce: 300 * time.Millisecond,
	}
}

// SetDebounce 设置合并间隔
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start 开始监听，非阻塞；ctx 取消后停止，停止后可再次 Start
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	done := make(chan struct{})
	w.doneCh = done
	w.running = true
	w.mu.Unlock()

	logger.Log.WithField("path", w.path).Info("开始监听数据文件")
	go w.run(ctx, fw, done)
	return nil
}

// Done 本轮监听循环退出后关闭；未 Start 时返回 nil
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doneCh
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer func() {
		_ = fw.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.WithField("path", w.path).Debug("停止监听数据文件")
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Log.WithError(err).Warn("文件监听出错")

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	w.pending = true
	w.lastEvt = time.Now()
	w.mu.Unlock()
}

// flush 合并连续写入，静默一段时间后执行一次重载
func (w *Watcher) flush() {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvt) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if w.cache != nil {
		removed := w.cache.InvalidateName(w.path)
		logger.Log.WithFields(logrus.Fields{"path": w.path, "evicted": removed}).Info("数据文件已变化，缓存失效")
	}

	result, err := w.load(w.path)
	if err != nil {
		logger.Log.WithError(err).WithField("path", w.path).Warn("重新加载失败")
	}
	if w.onReload != nil {
		w.onReload(result, err)
	}
}
