package model

import "time"

// ColumnMapping 数据源列到规范字段的映射
type ColumnMapping struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
	Field       Field  `json:"field"`
	Alias       string `json:"alias"` // 命中的别名
}

// Schema 规范化后的能力描述，加载时计算一次，下游按此判断功能是否可用
type Schema struct {
	Fields     map[Field]bool  `json:"fields"`
	Mappings   []ColumnMapping `json:"mappings"`
	Unmapped   []string        `json:"unmapped"`
	HasDates   bool            `json:"hasDates"`   // 至少一个有效日期，衍生列已生成
	CFRDerived bool            `json:"cfrDerived"` // 病死率由死亡数/确诊数推导
}

// NewSchema 创建空能力描述
func NewSchema() Schema {
	return Schema{Fields: make(map[Field]bool)}
}

// Has 是否存在规范字段
func (s Schema) Has(f Field) bool {
	return s.Fields[f]
}

// HasAll 是否同时存在全部字段
func (s Schema) HasAll(fields ...Field) bool {
	for _, f := range fields {
		if !s.Fields[f] {
			return false
		}
	}
	return true
}

// HasAny 是否存在任一字段
func (s Schema) HasAny(fields ...Field) bool {
	for _, f := range fields {
		if s.Fields[f] {
			return true
		}
	}
	return false
}

// SourceInfo 数据源标识
type SourceInfo struct {
	DatasetID string    `json:"datasetId"`
	Filename  string    `json:"filename"`
	Hash      string    `json:"hash"` // 内容 sha256，作为缓存键
	Size      int64     `json:"size"`
	Sheet     string    `json:"sheet"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// Table 规范化数据表
type Table struct {
	Records []Record   `json:"records"`
	Schema  Schema     `json:"schema"`
	Source  SourceInfo `json:"source"`
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// CloneWith 复制表结构并替换行
func (t *Table) CloneWith(records []Record) *Table {
	schema := t.Schema
	schema.Fields = make(map[Field]bool, len(t.Schema.Fields))
	for k, v := range t.Schema.Fields {
		schema.Fields[k] = v
	}
	return &Table{
		Records: records,
		Schema:  schema,
		Source:  t.Source,
	}
}
