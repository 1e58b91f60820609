package team

import (
	"sync"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 成员调用统计
// ═══════════════════════════════════════════════════════════════════════════

// InvocationStats 单个成员的调用统计
type InvocationStats struct {
	// 调用计数（一次 invoke 计一次，重试不重复计数）
	Calls     int64 `json:"calls"`
	Successes int64 `json:"successes"`
	Failures  int64 `json:"failures"`
	Timeouts  int64 `json:"timeouts"`

	// 延迟统计（仅成功调用）
	TotalLatency   time.Duration `json:"total_latency"`
	AverageLatency time.Duration `json:"average_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	MinLatency     time.Duration `json:"min_latency"`

	LastCallAt  time.Time `json:"last_call_at,omitzero"`
	LastErrorAt time.Time `json:"last_error_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// statsCollector 线程安全的统计收集器
type statsCollector struct {
	mu    sync.RWMutex
	stats InvocationStats
}

func (c *statsCollector) recordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Calls++
	c.stats.Successes++
	c.stats.LastCallAt = time.Now()
	c.stats.TotalLatency += latency
	c.stats.AverageLatency = c.stats.TotalLatency / time.Duration(c.stats.Successes)

	if latency > c.stats.MaxLatency {
		c.stats.MaxLatency = latency
	}
	if c.stats.MinLatency == 0 || latency < c.stats.MinLatency {
		c.stats.MinLatency = latency
	}
}

func (c *statsCollector) recordFailure(err error, timedOut bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.stats.Calls++
	c.stats.Failures++
	if timedOut {
		c.stats.Timeouts++
	}
	c.stats.LastCallAt = now
	c.stats.LastErrorAt = now
	if err != nil {
		c.stats.LastError = err.Error()
	}
}

func (c *statsCollector) snapshot() InvocationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// statsBook 按成员名索引的收集器
//
// map 在构造时填充完毕，之后只读；每个收集器自带锁。
type statsBook struct {
	byMember map[string]*statsCollector
}

func newStatsBook(members []TeamMember) *statsBook {
	b := &statsBook{byMember: make(map[string]*statsCollector, len(members))}
	for _, m := range members {
		b.byMember[m.Name] = &statsCollector{}
	}
	return b
}

func (b *statsBook) collector(name string) *statsCollector {
	return b.byMember[name]
}

func (b *statsBook) snapshot() map[string]InvocationStats {
	out := make(map[string]InvocationStats, len(b.byMember))
	for name, c := range b.byMember {
		out[name] = c.snapshot()
	}
	return out
}
