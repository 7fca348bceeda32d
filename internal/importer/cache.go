package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// HashContent 内容 sha256
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type cacheKey struct {
	hash  string
	sheet string
}

type cacheEntry struct {
	name   string
	result *LoadResult
}

// Cache 规范化结果缓存，以内容哈希为键
// 相同内容不重复解析；新上传或文件变化时显式失效
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

// NewCache 创建缓存
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

// Get 查询缓存
func (c *Cache) Get(hash, sheet string) (*LoadResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey{hash: hash, sheet: sheet}]
	if !ok {
		return nil, false
	}
	return e.result, true
}

// Put 写入缓存
func (c *Cache) Put(hash, sheet, name string, result *LoadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{hash: hash, sheet: sheet}] = cacheEntry{name: name, result: result}
}

// Invalidate 移除指定哈希的全部条目，返回移除数量
func (c *Cache) Invalidate(hash string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if k.hash == hash {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// InvalidateName 移除来自指定文件的条目
func (c *Cache) InvalidateName(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if e.name == name {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Reset 清空缓存
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len 条目数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
