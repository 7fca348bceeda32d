package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mpoxdash/internal/model"
)

// ErrImportLogNotFound 加载记录不存在
var ErrImportLogNotFound = errors.New("import log not found")

// CreateImportLog 创建加载记录（状态 processing），ID 为空时自动生成
func (s *Store) CreateImportLog(log *model.ImportLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.StartedAt.IsZero() {
		log.StartedAt = time.Now()
	}
	if log.Status == "" {
		log.Status = model.ImportProcessing
	}

	_, err := s.db.Exec(`
		INSERT INTO import_logs (id, filename, file_path, file_size, file_hash, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.Filename, log.FilePath, log.FileSize, log.FileHash, string(log.Status), log.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// FinishImportLog 写入加载结果
func (s *Store) FinishImportLog(log *model.ImportLog) error {
	now := time.Now()
	log.CompletedAt = &now

	mapped, err := json.Marshal(nonNil(log.MappedColumns))
	if err != nil {
		return fmt.Errorf("failed to encode mapped columns: %w", err)
	}
	unmapped, err := json.Marshal(nonNil(log.UnmappedColumns))
	if err != nil {
		return fmt.Errorf("failed to encode unmapped columns: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE import_logs SET
			file_size = ?,
			file_hash = ?,
			sheet = ?,
			total_rows = ?,
			imported_rows = ?,
			blank_rows = ?,
			invalid_cells = ?,
			mapped_columns = ?,
			unmapped_columns = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, log.FileSize, log.FileHash, log.Sheet, log.TotalRows, log.ImportedRows, log.BlankRows, log.InvalidCells,
		string(mapped), string(unmapped), string(log.Status), log.ErrorMessage, now.UTC(), log.ID)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update import log %s: %w", log.ID, ErrImportLogNotFound)
	}
	return nil
}

// GetImportLog 查询单条加载记录
func (s *Store) GetImportLog(id string) (*model.ImportLog, error) {
	row := s.db.QueryRow(`SELECT `+importLogColumns+` FROM import_logs WHERE id = ?`, id)
	log, err := scanImportLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import log %s: %w", id, ErrImportLogNotFound)
	}
	return log, err
}

// ListImportLogs 最近的加载记录，按开始时间倒序
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+importLogColumns+` FROM import_logs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.ImportLog, 0)
	for rows.Next() {
		log, err := scanImportLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

const importLogColumns = `id, filename, file_path, file_size, file_hash, sheet, total_rows, imported_rows,
	blank_rows, invalid_cells, mapped_columns, unmapped_columns, status, error_message, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportLog(row rowScanner) (*model.ImportLog, error) {
	var (
		log              model.ImportLog
		status           string
		mapped, unmapped string
		completedAt      sql.NullTime
	)
	if err := row.Scan(&log.ID, &log.Filename, &log.FilePath, &log.FileSize, &log.FileHash, &log.Sheet,
		&log.TotalRows, &log.ImportedRows, &log.BlankRows, &log.InvalidCells, &mapped, &unmapped,
		&status, &log.ErrorMessage, &log.StartedAt, &completedAt); err != nil {
		return nil, err
	}
	log.Status = model.ImportStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		log.CompletedAt = &t
	}
	if err := json.Unmarshal([]byte(mapped), &log.MappedColumns); err != nil {
		return nil, fmt.Errorf("decode mapped columns: %w", err)
	}
	if err := json.Unmarshal([]byte(unmapped), &log.UnmappedColumns); err != nil {
		return nil, fmt.Errorf("decode unmapped columns: %w", err)
	}
	return &log, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
