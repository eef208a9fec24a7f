package cache

import (
	"sync"

	"github.com/John-Robertt/peekrate/internal/domain"
)

// Ratings 是 Title -> Rating 的进程内缓存（生命周期与页面会话一致）。
//
// 约束：
// - 只缓存“确定结果”（数字评分或 domain.NotFound）；空结果由调用方拒绝写入
// - 不过期、不限容量：无淘汰策略，按页面会话整体丢弃
// - 并发安全：debounce 回调运行在独立 goroutine 上
type Ratings struct {
	mu      sync.RWMutex
	entries map[domain.Title]domain.Rating
}

func New() *Ratings {
	return &Ratings{entries: make(map[domain.Title]domain.Rating)}
}

// Get 返回缓存的结果；ok=false 表示从未查询过（与 NotFound 负缓存区分）。
func (c *Ratings) Get(title domain.Title) (domain.Rating, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[title]
	return r, ok
}

// Set 写入（或覆盖）一个条目。空 Rating 直接忽略：失败结果不能污染缓存。
func (c *Ratings) Set(title domain.Title, r domain.Rating) {
	if !r.Present() {
		return
	}
	c.mu.Lock()
	c.entries[title] = r
	c.mu.Unlock()
}

func (c *Ratings) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
