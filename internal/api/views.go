package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/calculator"
	"mpoxdash/internal/filter"
	"mpoxdash/internal/model"
	"mpoxdash/internal/service/view"
)

// 明细分页
const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// CountryRow 国家指标行
type CountryRow struct {
	model.CountryAggregate
	Breakdown model.ScoreBreakdown `json:"breakdown"`
	Flags     []string             `json:"flags"`
}

func countryRow(a model.CountryAggregate) CountryRow {
	return CountryRow{
		CountryAggregate: a,
		Breakdown:        calculator.Breakdown(a),
		Flags:            calculator.Flags(a),
	}
}

// currentView 解析过滤条件并获取视图，失败时已写入响应
func (h *Handler) currentView(c *gin.Context) (*view.View, bool) {
	sel, err := parseSelection(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	v, err := h.engine.View(sel)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return v, true
}

// GetOptions 过滤控件可选项
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	table, err := h.memory.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, filter.Options(table))
}

// ListRecords 过滤后的明细
// GET /api/records?offset=0&limit=100
func (h *Handler) ListRecords(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	v, ok := h.currentView(c)
	if !ok {
		return
	}

	records := v.Table.Records
	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"total":       total,
		"offset":      offset,
		"limit":       limit,
		"records":     records[offset:end],
	})
}

// ListCountries 国家指标，按优先级降序
// GET /api/countries?top=10
func (h *Handler) ListCountries(c *gin.Context) {
	top, err := queryInt(c, "top", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	if !v.Table.Schema.Has(model.FieldCountry) {
		unavailable(c, "数据源缺少 country 列", gin.H{"description": v.Description})
		return
	}

	aggs := v.Top(top)
	rows := make([]CountryRow, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, countryRow(a))
	}
	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"total":       len(v.Aggregates),
		"countries":   rows,
	})
}

// GetCountry 单个国家详情
// GET /api/countries/:country
func (h *Handler) GetCountry(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}

	name := c.Param("country")
	agg, found := v.Country(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "未找到国家: " + name})
		return
	}

	var persona model.PersonaAssignment
	for _, p := range v.Personas() {
		if p.Country == name {
			persona = p
			break
		}
	}
	weekly := []model.WeeklyPoint{}
	for _, p := range v.Weekly() {
		if p.Country == name {
			weekly = append(weekly, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"description":     v.Description,
		"country":         countryRow(agg),
		"recommendations": calculator.Recommend(agg),
		"persona":         persona,
		"weekly":          weekly,
	})
}

// ListRecommendations 国家建议与画像
// GET /api/recommendations
func (h *Handler) ListRecommendations(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	if !v.Table.Schema.Has(model.FieldCountry) {
		unavailable(c, "数据源缺少 country 列", gin.H{"description": v.Description})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"description":     v.Description,
		"recommendations": v.Recommendations(),
		"personas":        v.Personas(),
	})
}

// GetAnomalies 周度异常
// GET /api/anomalies
func (h *Handler) GetAnomalies(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	s := v.Table.Schema
	if !capabilities(s)["anomalies"] {
		unavailable(c, "需要有效的 report_date、country 以及 weekly_new_cases 或 confirmed_cases 列", gin.H{"description": v.Description})
		return
	}

	results, err := v.Anomalies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"minWeeks":    v.Settings.AnomalyMinWeeks,
		"countries":   results,
	})
}

// GetClades 毒株分支分析
// GET /api/clades
func (h *Handler) GetClades(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	if !v.Table.Schema.Has(model.FieldClade) {
		unavailable(c, "数据源缺少 clade 列", gin.H{"description": v.Description})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"clades":      v.Clades(),
	})
}

// GetQuality 数据质量
// GET /api/quality
func (h *Handler) GetQuality(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"quality":     v.Quality(),
	})
}

// GetSummary 执行摘要
// GET /api/summary
func (h *Handler) GetSummary(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"description": v.Description,
		"summary":     v.Summary(),
	})
}

// SimulateRequest 情景模拟请求
type SimulateRequest struct {
	Country        string  `json:"country" binding:"required"`
	AddDoses       float64 `json:"addDoses"`
	IncreaseCHWPct float64 `json:"increaseChwPct"`
	AddLabs        float64 `json:"addLabs"`
}

// Simulate 假设情景
// POST /api/simulate
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数: " + err.Error()})
		return
	}

	v, ok := h.currentView(c)
	if !ok {
		return
	}
	agg, found := v.Country(req.Country)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "未找到国家: " + req.Country})
		return
	}

	result, err := calculator.Simulate(agg, model.Scenario{
		AddDoses:       req.AddDoses,
		IncreaseCHWPct: req.IncreaseCHWPct,
		AddLabs:        req.AddLabs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
