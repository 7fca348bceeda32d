package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// 配置键
const (
	KeyDatasetPath = "current_dataset_path"
	KeyDatasetHash = "current_dataset_hash"
	KeyDatasetName = "current_dataset_name"
	KeyImportCount = "import_count"
)

// ErrConfigNotFound 配置项不存在
var ErrConfigNotFound = errors.New("config key not found")

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", key, ErrConfigNotFound)
		}
		return "", err
	}
	return value, nil
}

// GetConfigInt 获取整数配置项
func (s *Store) GetConfigInt(key string) (int, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SetConfigInt 设置整数配置项
func (s *Store) SetConfigInt(key string, value int) error {
	return s.SetConfig(key, strconv.Itoa(value))
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}

// DatasetRef 当前数据集标识
type DatasetRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// GetCurrentDataset 获取当前数据集，未设置时返回 ok=false
func (s *Store) GetCurrentDataset() (ref DatasetRef, ok bool, err error) {
	all, err := s.GetAllConfig()
	if err != nil {
		return DatasetRef{}, false, fmt.Errorf("failed to read config: %w", err)
	}
	ref = DatasetRef{
		Path: all[KeyDatasetPath],
		Name: all[KeyDatasetName],
		Hash: all[KeyDatasetHash],
	}
	return ref, ref.Hash != "", nil
}

// SetCurrentDataset 记录当前数据集并累加导入次数
func (s *Store) SetCurrentDataset(ref DatasetRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	for key, value := range map[string]string{
		KeyDatasetPath: ref.Path,
		KeyDatasetName: ref.Name,
		KeyDatasetHash: ref.Hash,
	} {
		if _, err := tx.Exec(upsert, key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO config (key, value) VALUES (?, '1')
		ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + 1, updated_at = CURRENT_TIMESTAMP
	`, KeyImportCount); err != nil {
		return fmt.Errorf("bump import count: %w", err)
	}
	return tx.Commit()
}
