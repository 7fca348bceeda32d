package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// streamEvent SSE 事件
type streamEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// wantsStream 请求方是否需要 SSE 进度
func wantsStream(c *gin.Context) bool {
	return c.Query("stream") == "true" || strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// openStream 设置 SSE 响应头并返回发送函数
func openStream(c *gin.Context) (func(streamEvent), bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return nil, false
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event streamEvent) {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	return send, true
}
