// Package api 仪表盘 HTTP 接口
package api

import (
	"github.com/gin-gonic/gin"

	"mpoxdash/internal/exporter"
	"mpoxdash/internal/importer"
	memstore "mpoxdash/internal/service/store"
	"mpoxdash/internal/service/view"
	"mpoxdash/internal/store"
)

// Handler API 处理器
type Handler struct {
	store       *store.Store // 可为 nil，此时不提供导入记录
	memory      *memstore.MemoryStore
	engine      *view.Engine
	coordinator *importer.Coordinator
	exporter    *exporter.Exporter
	downloads   *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, memory *memstore.MemoryStore, coordinator *importer.Coordinator) *Handler {
	return &Handler{
		store:       store,
		memory:      memory,
		engine:      view.NewEngine(memory),
		coordinator: coordinator,
		exporter:    exporter.NewExporter(),
		downloads:   newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据集导入
	router.POST("/import", h.Import)
	router.GET("/imports", h.ListImports)

	// 过滤与明细
	router.GET("/options", h.GetOptions)
	router.GET("/records", h.ListRecords)

	// 国家指标
	router.GET("/countries", h.ListCountries)
	router.GET("/countries/:country", h.GetCountry)
	router.GET("/recommendations", h.ListRecommendations)

	// 辅助分析
	router.GET("/anomalies", h.GetAnomalies)
	router.GET("/clades", h.GetClades)
	router.GET("/quality", h.GetQuality)
	router.GET("/summary", h.GetSummary)
	router.POST("/simulate", h.Simulate)

	// 数据导出
	router.GET("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}
