package store

import (
	"errors"
	"sync"
	"time"

	"mpoxdash/internal/model"
)

// ErrNoDataset 尚未加载任何数据集
var ErrNoDataset = errors.New("no dataset loaded")

// Snapshot 当前数据集快照
type Snapshot struct {
	Table     *model.Table
	Version   int64
	Activated time.Time
}

// MemoryStore 内存数据集存储
// 规范化数据表加载后只读，替换时整体换掉指针
type MemoryStore struct {
	current  *model.Table
	version  int64
	activeAt time.Time
	settings model.ReportSettings
	mu       sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: model.DefaultReportSettings()}
}

// Current 获取当前数据集
func (s *MemoryStore) Current() (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// Snapshot 当前数据集及版本号
func (s *MemoryStore) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Snapshot{}, ErrNoDataset
	}
	return Snapshot{Table: s.current, Version: s.version, Activated: s.activeAt}, nil
}

// SetTable 替换当前数据集，返回新版本号
func (s *MemoryStore) SetTable(table *model.Table) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = table
	s.version++
	s.activeAt = time.Now()
	return s.version
}

// Version 当前版本号，未加载时为 0
func (s *MemoryStore) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Settings 获取分析阈值
func (s *MemoryStore) Settings() model.ReportSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings 设置分析阈值
func (s *MemoryStore) SetSettings(settings model.ReportSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Count 当前数据集行数
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Len()
}

// Clear 清空数据集
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.activeAt = time.Time{}
}
