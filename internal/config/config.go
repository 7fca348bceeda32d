package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"mpoxdash/internal/model"
)

// FileName 配置文件名
const FileName = "config.toml"

// EnvPrefix 环境变量前缀
const EnvPrefix = "MPOXDASH_"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Log    LogConfig    `toml:"log"`
	Report ReportConfig `toml:"report"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	DatasetPath string `toml:"dataset_path"` // 启动时加载的默认数据集
	Sheet       string `toml:"sheet"`        // 指定工作表，留空自动识别
	Watch       bool   `toml:"watch"`        // 监听默认数据集变化并重新加载
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ReportConfig 报表参数
type ReportConfig struct {
	StaleDays       int `toml:"stale_days"`
	AnomalyMinWeeks int `toml:"anomaly_min_weeks"`
	TopN            int `toml:"top_n"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
	EnvOverrides  []string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	report := model.DefaultReportSettings()
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			Watch:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			StaleDays:       report.StaleDays,
			AnomalyMinWeeks: report.AnomalyMinWeeks,
			TopN:            report.TopN,
		},
	}
}

// ReportSettings 转换为计算参数，非法值回退默认
func (c *AppConfig) ReportSettings() model.ReportSettings {
	s := model.DefaultReportSettings()
	if c.Report.StaleDays > 0 {
		s.StaleDays = c.Report.StaleDays
	}
	if c.Report.AnomalyMinWeeks > 0 {
		s.AnomalyMinWeeks = c.Report.AnomalyMinWeeks
	}
	if c.Report.TopN > 0 {
		s.TopN = c.Report.TopN
	}
	return s
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func baseDir() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFromDir(baseDir())
}

// LoadFromDir 从指定目录加载配置
// 优先级：环境变量 > 同目录 .env > config.toml > 默认值
func LoadFromDir(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: filepath.Join(dir, FileName)}
	config := DefaultConfig()

	// .env 不覆盖已存在的环境变量
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, info, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(info.Path)
	switch {
	case err == nil:
		info.FromFile = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", info.Path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("read %s: %w", info.Path, err)
	}

	overrides, err := applyEnv(config)
	if err != nil {
		return nil, info, err
	}
	info.EnvOverrides = overrides
	for _, name := range overrides {
		if name == EnvPrefix+"PORT" {
			info.PortSpecified = true
		}
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// applyEnv 环境变量覆盖，返回生效的变量名
func applyEnv(config *AppConfig) ([]string, error) {
	var applied []string

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
			applied = append(applied, EnvPrefix+name)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s%s=%q: %w", EnvPrefix, name, v, err)
		}
		*dst = n
		applied = append(applied, EnvPrefix+name)
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s%s=%q: %w", EnvPrefix, name, v, err)
		}
		*dst = b
		applied = append(applied, EnvPrefix+name)
		return nil
	}

	str("DATA_DIR", &config.Data.DataDir)
	str("DATASET", &config.Data.DatasetPath)
	str("SHEET", &config.Data.Sheet)
	str("LOG_LEVEL", &config.Log.Level)
	str("LOG_FILE", &config.Log.File)

	for _, err := range []error{
		num("PORT", &config.Server.Port),
		num("STALE_DAYS", &config.Report.StaleDays),
		num("ANOMALY_MIN_WEEKS", &config.Report.AnomalyMinWeeks),
		num("TOP_N", &config.Report.TopN),
		flag("DEV_MODE", &config.Server.DevMode),
		flag("WATCH", &config.Data.Watch),
	} {
		if err != nil {
			return nil, err
		}
	}
	return applied, nil
}

// SaveConfig 保存配置到指定目录的 config.toml
func SaveConfig(dir string, config *AppConfig) (string, error) {
	path := filepath.Join(dir, FileName)

	data, err := toml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// EnsureDataDir 确保数据目录存在，相对路径以可执行文件目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolvePath(config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// ResolvePath 相对路径转换为可执行文件目录下的路径
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir(), p)
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolvePath(config.Data.DataDir), subdir, filename)
}
