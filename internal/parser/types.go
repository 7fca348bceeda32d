package parser

import "errors"

// ErrEmptySheet 数据表没有表头
var ErrEmptySheet = errors.New("sheet has no header row")

// RawSheet 原始表格内容（xlsx 单个 Sheet 或 csv 文件）
type RawSheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"-"`
}

// SheetRecognitionResult Sheet 识别结果
type SheetRecognitionResult struct {
	SheetName  string   `json:"sheetName"`
	Confidence float64  `json:"confidence"` // 置信度 0-1，缺少 country 时低于 0.5
	HasCountry bool     `json:"hasCountry"`
	Matched    []string `json:"matched"` // 命中的规范字段
}

// NormalizeStats 规范化统计
type NormalizeStats struct {
	TotalRows    int `json:"totalRows"`
	BlankRows    int `json:"blankRows"`
	InvalidCells int `json:"invalidCells"` // 无法转换而置为未知的单元格
}
