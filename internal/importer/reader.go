package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mpoxdash/internal/parser"
)

// Format 数据源格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat 按扩展名判断格式，扩展名未知时看文件头
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		return FormatXLSX
	case ".csv", ".txt":
		return FormatCSV
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// readWorkbook 读取工作簿，选出数据 Sheet
// 单元格按原始值读取，日期列保留 Excel 序列号交给解析层转换
func readWorkbook(data []byte, preferred string, recognizer *parser.SheetRecognizer) (parser.RawSheet, []parser.SheetRecognitionResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return parser.RawSheet{}, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return parser.RawSheet{}, nil, fmt.Errorf("workbook has no sheets: %w", parser.ErrEmptySheet)
	}

	contents := make(map[string][][]string, len(sheets))
	results := make([]parser.SheetRecognitionResult, 0, len(sheets))
	for _, name := range sheets {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return parser.RawSheet{}, nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		contents[name] = rows

		var headers []string
		if len(rows) > 0 {
			headers = rows[0]
		}
		results = append(results, recognizer.Recognize(name, headers))
	}

	picked, _ := recognizer.Pick(results, preferred)
	rows := contents[picked.SheetName]
	if len(rows) == 0 {
		return parser.RawSheet{}, results, fmt.Errorf("sheet %s: %w", picked.SheetName, parser.ErrEmptySheet)
	}

	return parser.RawSheet{
		Name:    picked.SheetName,
		Headers: rows[0],
		Rows:    rows[1:],
	}, results, nil
}

// readCSV 读取 csv，容忍 BOM 与不等长行
func readCSV(name string, data []byte) (parser.RawSheet, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return parser.RawSheet{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return parser.RawSheet{}, fmt.Errorf("csv %s: %w", name, parser.ErrEmptySheet)
	}

	return parser.RawSheet{
		Name:    strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Headers: rows[0],
		Rows:    rows[1:],
	}, nil
}
