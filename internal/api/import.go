package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/importer"
)

// maxUploadSize 上传文件大小上限
const maxUploadSize = 64 << 20

// Import 上传并切换当前数据集
// POST /api/import（multipart: file；?stream=true 时以 SSE 返回进度）
func (h *Handler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if fh.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "文件过大"})
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}

	opts := importer.ImportOptions{
		Filename: fh.Filename,
		Data:     data,
		Activate: true,
	}

	if wantsStream(c) {
		send, ok := openStream(c)
		if !ok {
			return
		}
		// 流式发送进度事件
		for event := range h.coordinator.Import(opts) {
			send(streamEvent{
				Type:      event.Type,
				Message:   event.Message,
				Data:      event.Data,
				Timestamp: event.Timestamp,
			})
		}
		return
	}

	result, err := h.coordinator.Load(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":  result.Report,
		"cached":  result.Cached,
		"rows":    result.Table.Len(),
		"version": h.memory.Version(),
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadSize+1))
}
