package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mpoxdash/internal/model"
)

const dateLayout = "2006-01-02"

// parseSelection 解析过滤条件：start/end（YYYY-MM-DD），可重复的 country/clade/note
func parseSelection(c *gin.Context) (model.Selection, error) {
	var sel model.Selection

	start, err := parseDateParam(c, "start", model.OpenStart)
	if err != nil {
		return sel, err
	}
	end, err := parseDateParam(c, "end", model.OpenEnd)
	if err != nil {
		return sel, err
	}
	if c.Query("start") != "" || c.Query("end") != "" {
		if end.Before(start) {
			return sel, fmt.Errorf("%w: end 早于 start", errBadRequest)
		}
		sel.DateRange = &model.DateRange{Start: start, End: end}
	}

	sel.Countries = queryList(c, "country")
	sel.Clades = queryList(c, "clade")
	sel.Notes = queryList(c, "note")
	return sel, nil
}

func parseDateParam(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s 日期格式应为 YYYY-MM-DD", errBadRequest, name)
	}
	return t, nil
}

// queryList 可重复参数，去除空值
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// queryInt 非负整数参数，缺省返回 fallback
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s 应为非负整数", errBadRequest, name)
	}
	return n, nil
}
