package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/calculator"
	"mpoxdash/internal/importer"
	"mpoxdash/internal/logger"
	memstore "mpoxdash/internal/service/store"
)

// errBadRequest 请求参数错误
var errBadRequest = errors.New("bad request")

// respondError 按错误类型返回 JSON 错误
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "服务器内部错误"

	switch {
	case errors.Is(err, memstore.ErrNoDataset):
		status, message = http.StatusNotFound, "尚未加载数据集"
	case errors.Is(err, importer.ErrUnreadableSource):
		status, message = http.StatusUnprocessableEntity, "无法读取数据源: "+err.Error()
	case errors.Is(err, calculator.ErrInvalidScenario):
		status, message = http.StatusBadRequest, "情景参数无效: "+err.Error()
	case errors.Is(err, errBadRequest):
		status, message = http.StatusBadRequest, err.Error()
	default:
		logger.Log.WithError(err).WithField("path", c.FullPath()).Error("请求处理失败")
	}

	c.JSON(status, gin.H{"error": message})
}

// unavailable 依赖的列缺失时返回提示而非错误
func unavailable(c *gin.Context, reason string, extra gin.H) {
	body := gin.H{"unavailable": reason}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
