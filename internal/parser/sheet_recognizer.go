package parser

import (
	"strings"

	"mpoxdash/internal/model"
)

// SheetRecognizer 数据 Sheet 识别器
type SheetRecognizer struct {
	mapper *FieldMapper
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{mapper: NewFieldMapper()}
}

// Recognize 根据表头可识别的规范字段比例打分
// 有 country 列时置信度落在 [0.5, 1]，否则低于 0.5
func (r *SheetRecognizer) Recognize(sheetName string, headers []string) SheetRecognitionResult {
	mappings, _ := r.mapper.Map(headers)

	result := SheetRecognitionResult{SheetName: sheetName}
	for _, m := range mappings {
		result.Matched = append(result.Matched, string(m.Field))
		if m.Field == model.FieldCountry {
			result.HasCountry = true
		}
	}

	ratio := float64(len(mappings)) / float64(len(r.mapper.table))
	if result.HasCountry {
		result.Confidence = 0.5 + ratio/2
	} else {
		result.Confidence = ratio / 2
	}
	return result
}

// Pick 选择数据 Sheet：指定名称优先，其次置信度最高，否则取第一个
func (r *SheetRecognizer) Pick(results []SheetRecognitionResult, preferred string) (SheetRecognitionResult, bool) {
	if len(results) == 0 {
		return SheetRecognitionResult{}, false
	}

	if preferred = strings.TrimSpace(preferred); preferred != "" {
		for _, res := range results {
			if strings.EqualFold(res.SheetName, preferred) {
				return res, true
			}
		}
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	return best, true
}
