package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/exporter"
	"mpoxdash/internal/service/view"
)

// downloadTTL 导出文件下载有效期
const downloadTTL = 10 * time.Minute

func exportOptions(v *view.View, progress func(exporter.ProgressEvent)) exporter.ExportOptions {
	return exporter.ExportOptions{
		Table:       v.Table,
		Aggregates:  v.Aggregates,
		Quality:     v.Quality(),
		Description: v.Description,
		Progress:    progress,
	}
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"", filename)
}

// Export 导出 Excel
// GET /api/export
func (h *Handler) Export(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}

	file, err := h.exporter.Export(exportOptions(v, nil))
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", contentDisposition(exporter.Filename(time.Now())))
	c.Header("Content-Type", exporter.ContentType)

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入文件失败"})
		return
	}
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	v, ok := h.currentView(c)
	if !ok {
		return
	}

	send, ok := openStream(c)
	if !ok {
		return
	}

	send(streamEvent{
		Type:    "start",
		Message: "开始导出",
		Data:    map[string]any{"description": v.Description, "rows": v.Table.Len()},
	})

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(streamEvent{
			Type:    "progress",
			Message: p.Stage,
			Data:    map[string]any{"percent": p.Percent},
		})
	}

	filename := exporter.Filename(time.Now())
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("mpoxdash_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := h.exporter.ExportToFile(tempPath, exportOptions(v, progressFn)); err != nil {
		send(streamEvent{
			Type:    "error",
			Message: "导出失败: " + err.Error(),
			Data:    map[string]any{},
		})
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.put(tempPath, filename, downloadTTL)
	send(streamEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/export/download/" + token,
		},
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.filename))
	c.Header("Content-Type", exporter.ContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
