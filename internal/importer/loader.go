package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mpoxdash/internal/logger"
	"mpoxdash/internal/model"
	"mpoxdash/internal/parser"
)

// LoadReport 加载报告
type LoadReport struct {
	Filename string                          `json:"filename"`
	Format   Format                          `json:"format"`
	Hash     string                          `json:"hash"`
	Size     int64                           `json:"size"`
	Sheet    string                          `json:"sheet"`
	Sheets   []parser.SheetRecognitionResult `json:"sheets,omitempty"`
	Stats    parser.NormalizeStats           `json:"stats"`
	Mapped   []model.ColumnMapping           `json:"mapped"`
	Unmapped []string                        `json:"unmapped"`
	Duration time.Duration                   `json:"duration"`
}

// LoadResult 加载结果
type LoadResult struct {
	Table  *model.Table `json:"-"`
	Report LoadReport   `json:"report"`
	Cached bool         `json:"cached"`
}

// Loader 数据源加载器
type Loader struct {
	cache      *Cache
	recognizer *parser.SheetRecognizer
	sheet      string // 指定 Sheet，空则自动识别
}

// NewLoader 创建加载器，cache 为 nil 时不做缓存
func NewLoader(cache *Cache, sheet string) *Loader {
	return &Loader{
		cache:      cache,
		recognizer: parser.NewSheetRecognizer(),
		sheet:      sheet,
	}
}

// Cache 返回加载器使用的缓存
func (l *Loader) Cache() *Cache {
	return l.cache
}

// LoadFile 从磁盘加载
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnreadableSource, path, err)
	}
	return l.LoadBytes(filepath.Clean(path), data)
}

// LoadBytes 从内存加载（上传文件）
func (l *Loader) LoadBytes(name string, data []byte) (*LoadResult, error) {
	start := time.Now()
	hash := HashContent(data)
	log := logger.Log.WithFields(logrus.Fields{
		"file": filepath.Base(name),
		"hash": shortHash(hash),
	})

	if l.cache != nil {
		if cached, ok := l.cache.Get(hash, l.sheet); ok {
			log.Debug("命中缓存，跳过解析")
			return reuse(cached, name, start), nil
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnreadableSource, name)
	}

	format := DetectFormat(name, data)
	report := LoadReport{
		Filename: filepath.Base(name),
		Format:   format,
		Hash:     hash,
		Size:     int64(len(data)),
	}

	var raw parser.RawSheet
	var err error
	switch format {
	case FormatXLSX:
		raw, report.Sheets, err = readWorkbook(data, l.sheet, l.recognizer)
	default:
		raw, err = readCSV(name, data)
	}
	if err != nil {
		log.WithError(err).Warn("数据源读取失败")
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, report.Filename, err)
	}

	table, stats, err := parser.NormalizeWithStats(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, report.Filename, err)
	}

	table.Source = model.SourceInfo{
		DatasetID: uuid.NewString(),
		Filename:  report.Filename,
		Hash:      hash,
		Size:      report.Size,
		Sheet:     raw.Name,
		LoadedAt:  time.Now(),
	}
	report.Sheet = raw.Name
	report.Stats = stats
	report.Mapped = table.Schema.Mappings
	report.Unmapped = table.Schema.Unmapped
	report.Duration = time.Since(start)

	result := &LoadResult{Table: table, Report: report}
	if l.cache != nil {
		l.cache.Put(hash, l.sheet, name, result)
	}

	log.WithFields(logrus.Fields{
		"sheet":    raw.Name,
		"rows":     len(table.Records),
		"mapped":   len(report.Mapped),
		"unmapped": len(report.Unmapped),
		"invalid":  stats.InvalidCells,
	}).Info("数据集加载完成")
	return result, nil
}

// reuse 复用已解析的行，数据源标识换成本次加载的文件
// 行数据只读，新旧结果共享
func reuse(cached *LoadResult, name string, start time.Time) *LoadResult {
	table := *cached.Table
	table.Source.DatasetID = uuid.NewString()
	table.Source.Filename = filepath.Base(name)
	table.Source.LoadedAt = time.Now()

	hit := *cached
	hit.Table = &table
	hit.Cached = true
	hit.Report.Filename = table.Source.Filename
	hit.Report.Duration = time.Since(start)
	return &hit
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
