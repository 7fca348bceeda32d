package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/logger"
	"mpoxdash/internal/model"
	"mpoxdash/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Loaded       bool                 `json:"loaded"`            // 是否已加载数据集
	Version      int64                `json:"version"`           // 数据集版本，每次切换递增
	Rows         int                  `json:"rows"`              // 行数
	Source       *model.SourceInfo    `json:"source,omitempty"`  // 数据源
	Schema       *model.Schema        `json:"schema,omitempty"`  // 字段能力
	Capabilities map[string]bool      `json:"capabilities"`      // 可用的分析
	Dataset      *store.DatasetRef    `json:"dataset,omitempty"` // 最近一次激活的数据集
	ImportCount  int                  `json:"importCount"`       // 累计激活次数
	Settings     model.ReportSettings `json:"settings"`          // 分析参数
}

// capabilities 按字段能力判断各分析是否可用
func capabilities(s model.Schema) map[string]bool {
	hasSeries := s.HasDates && s.Has(model.FieldCountry) && s.HasAny(model.FieldWeeklyNewCases, model.FieldConfirmedCases)
	return map[string]bool{
		"countries":  s.Has(model.FieldCountry),
		"cfr":        s.Has(model.FieldCaseFatalityRate),
		"clades":     s.Has(model.FieldClade),
		"growth":     hasSeries,
		"anomalies":  hasSeries,
		"trend":      s.HasDates && s.Has(model.FieldConfirmedCases),
		"vaccines":   s.HasAny(model.FieldVaccineDoseAllocated, model.FieldVaccinationsAdministered),
		"workforce":  s.HasAny(model.FieldDeployedCHWs, model.FieldTrainedCHWs),
		"dateFilter": s.HasDates,
	}
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Capabilities: capabilities(model.NewSchema()),
		Settings:     h.memory.Settings(),
	}

	if snap, err := h.memory.Snapshot(); err == nil {
		resp.Loaded = true
		resp.Version = snap.Version
		resp.Rows = snap.Table.Len()
		resp.Source = &snap.Table.Source
		resp.Schema = &snap.Table.Schema
		resp.Capabilities = capabilities(snap.Table.Schema)
	}

	if h.store != nil {
		if ref, ok, err := h.store.GetCurrentDataset(); err != nil {
			logger.Log.WithError(err).Warn("读取当前数据集失败")
		} else if ok {
			resp.Dataset = &ref
		}
		if n, err := h.store.GetConfigInt(store.KeyImportCount); err == nil {
			resp.ImportCount = n
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListImports 最近的加载记录
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"imports": []model.ImportLog{}})
		return
	}

	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": logs})
}
