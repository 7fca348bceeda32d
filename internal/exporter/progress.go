package exporter

// ProgressEvent 导出进度事件，Rows/Total 仅在写入过滤数据时填充
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Sheet   string `json:"sheet,omitempty"`
	Rows    int    `json:"rows,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// rowReportEvery 每写入多少行上报一次
const rowReportEvery = 500

// progressTracker 保证百分比单调不减，并丢弃重复事件
type progressTracker struct {
	fn   func(ProgressEvent)
	last int
	sent bool
}

func newProgressTracker(fn func(ProgressEvent)) *progressTracker {
	return &progressTracker{fn: fn}
}

func (p *progressTracker) emit(ev ProgressEvent) {
	if p == nil || p.fn == nil {
		return
	}
	ev.Percent = clampPercent(ev.Percent)
	if ev.Percent < p.last {
		ev.Percent = p.last
	}
	if p.sent && ev.Percent == p.last && ev.Rows == 0 {
		return
	}
	p.last = ev.Percent
	p.sent = true
	p.fn(ev)
}

// step 阶段完成
func (p *progressTracker) step(percent int, stage, sheet string) {
	p.emit(ProgressEvent{Percent: percent, Stage: stage, Sheet: sheet})
}

// rows 在 [from, to] 区间内按已写行数插值
func (p *progressTracker) rows(from, to, done, total int, stage, sheet string) {
	if total <= 0 {
		return
	}
	if done != total && done%rowReportEvery != 0 {
		return
	}
	percent := from + (to-from)*done/total
	p.emit(ProgressEvent{Percent: percent, Stage: stage, Sheet: sheet, Rows: done, Total: total})
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
