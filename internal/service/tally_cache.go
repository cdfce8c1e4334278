package service

import (
	"sync"

	"github.com/majwic/namilx-api/internal/model"
)

// tallyKey 的三元组与缓存契约一致：(目标类型, 目标ID, 极性)
type tallyKey struct {
	kind     model.TargetKind
	targetID int64
	isLike   bool
}

// tallyCache 是进程内的读穿缓存，没有TTL；
// 新鲜度完全由反应写入路径上的重填保证。
type tallyCache struct {
	counts map[tallyKey]int64
	mu     sync.RWMutex
}

func newTallyCache() *tallyCache {
	return &tallyCache{
		counts: make(map[tallyKey]int64),
	}
}

func (c *tallyCache) get(kind model.TargetKind, targetID int64, isLike bool) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count, ok := c.counts[tallyKey{kind, targetID, isLike}]
	return count, ok
}

func (c *tallyCache) put(kind model.TargetKind, targetID int64, isLike bool, count int64) {
	c.mu.Lock()
	c.counts[tallyKey{kind, targetID, isLike}] = count
	c.mu.Unlock()
}

// evict 同时丢弃一个目标的两个极性条目
func (c *tallyCache) evict(kind model.TargetKind, targetID int64) {
	c.mu.Lock()
	delete(c.counts, tallyKey{kind, targetID, true})
	delete(c.counts, tallyKey{kind, targetID, false})
	c.mu.Unlock()
}
