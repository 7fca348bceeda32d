// Package view 按数据集版本与过滤条件缓存派生视图
package view

import (
	"context"
	"strings"
	"sync"
	"time"

	"mpoxdash/internal/calculator"
	"mpoxdash/internal/filter"
	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
	"mpoxdash/internal/service/store"
)

// DefaultCacheSize 每个数据集版本最多缓存的视图数
const DefaultCacheSize = 32

// View 一次过滤的派生结果，只读
type View struct {
	Version     int64
	Selection   model.Selection // 去重排序后的条件
	Table       *model.Table
	Description string
	Aggregates  []model.CountryAggregate
	Settings    model.ReportSettings
	ComputedAt  time.Time
}

// Engine 视图计算引擎
// 数据集版本变化时整体失效；同一版本下相同过滤条件复用已计算的汇总
type Engine struct {
	store *store.MemoryStore
	now   func() time.Time

	mu      sync.Mutex
	version int64
	views   map[string]*View
	order   []string
	limit   int
}

// NewEngine 创建视图引擎
func NewEngine(store *store.MemoryStore) *Engine {
	return &Engine{
		store: store,
		now:   time.Now,
		views: make(map[string]*View),
		limit: DefaultCacheSize,
	}
}

// View 获取过滤视图，未加载数据集时返回 store.ErrNoDataset
func (e *Engine) View(sel model.Selection) (*View, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	settings := e.store.Settings()
	sel = sel.Canonical()
	key := selectionKey(sel)
	now := e.now()

	e.mu.Lock()
	if e.version != snap.Version {
		e.version = snap.Version
		e.views = make(map[string]*View)
		e.order = e.order[:0]
	}
	// 新鲜度按天计算，跨天后重新计算
	if v, ok := e.views[key]; ok && v.Settings == settings && sameDay(v.ComputedAt, now) {
		e.mu.Unlock()
		return v, nil
	}
	e.mu.Unlock()

	// 计算不持锁，并发请求同一条件时可能重复计算，结果相同
	v := e.compute(snap, sel, settings, now)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version == snap.Version {
		if _, ok := e.views[key]; !ok {
			e.order = append(e.order, key)
		}
		e.views[key] = v
		for len(e.order) > e.limit {
			delete(e.views, e.order[0])
			e.order = e.order[1:]
		}
	}
	return v, nil
}

func (e *Engine) compute(snap store.Snapshot, sel model.Selection, settings model.ReportSettings, now time.Time) *View {
	table, desc := filter.Apply(snap.Table, sel)
	return &View{
		Version:     snap.Version,
		Selection:   sel,
		Table:       table,
		Description: desc,
		Aggregates:  calculator.AggregateAt(table, now, settings.StaleDays),
		Settings:    settings,
		ComputedAt:  now,
	}
}

// Len 当前缓存的视图数
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.views)
}

// Country 单个国家汇总
func (v *View) Country(name string) (model.CountryAggregate, bool) {
	return calculator.Find(v.Aggregates, name)
}

// Top 优先级最高的前 n 个国家，n <= 0 时返回全部
func (v *View) Top(n int) []model.CountryAggregate {
	if n <= 0 || n >= len(v.Aggregates) {
		return v.Aggregates
	}
	return v.Aggregates[:n]
}

// Recommendations 国家建议（按优先级顺序）
func (v *View) Recommendations() []model.Recommendation {
	return calculator.Recommendations(v.Aggregates)
}

// Personas 国家画像
func (v *View) Personas() []model.PersonaAssignment {
	return calculator.AssignPersonas(v.Aggregates)
}

// Quality 数据质量
func (v *View) Quality() model.QualityReport {
	return calculator.Quality(v.Table, v.ComputedAt, v.Settings.StaleDays)
}

// Summary 执行摘要
func (v *View) Summary() model.Summary {
	return calculator.Summarize(v.Table)
}

// Clades 毒株分支分析
func (v *View) Clades() model.CladeReport {
	return calculator.CladeAnalysis(v.Table)
}

// Weekly 周度新增病例序列
func (v *View) Weekly() []model.WeeklyPoint {
	return calculator.WeeklySeries(v.Table)
}

// Anomalies 周度异常检测
func (v *View) Anomalies(ctx context.Context) ([]model.CountryAnomalies, error) {
	return calculator.DetectAnomalies(ctx, v.Weekly(), calculator.AnomalyOptions{
		MinWeeks: v.Settings.AnomalyMinWeeks,
	})
}

// selectionKey 规范化过滤条件的键
func selectionKey(sel model.Selection) string {
	var b strings.Builder
	if sel.DateRange != nil {
		b.WriteString(parser.FormatDate(sel.DateRange.Start))
		b.WriteString("~")
		b.WriteString(parser.FormatDate(sel.DateRange.End))
	}
	for _, part := range [][]string{sel.Countries, sel.Clades, sel.Notes} {
		b.WriteString("\x1e")
		b.WriteString(strings.Join(part, "\x1f"))
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	return parser.DayOf(a).Equal(parser.DayOf(b))
}
