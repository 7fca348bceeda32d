package model

import "time"

// ImportStatus 导入状态
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportSuccess    ImportStatus = "success"
	ImportCached     ImportStatus = "cached" // 内容哈希命中缓存，未重新解析
	ImportError      ImportStatus = "error"
)

// ImportLog 数据集加载记录
type ImportLog struct {
	ID              string       `json:"id"`
	Filename        string       `json:"filename"`
	FilePath        string       `json:"filePath"`
	FileSize        int64        `json:"fileSize"`
	FileHash        string       `json:"fileHash"`
	Sheet           string       `json:"sheet"`
	TotalRows       int          `json:"totalRows"`
	ImportedRows    int          `json:"importedRows"`
	BlankRows       int          `json:"blankRows"`
	InvalidCells    int          `json:"invalidCells"`
	MappedColumns   []string     `json:"mappedColumns"`
	UnmappedColumns []string     `json:"unmappedColumns"`
	Status          ImportStatus `json:"status"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
	StartedAt       time.Time    `json:"startedAt"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
}
