// Package ttl 提供缓存项生命周期管理
package ttl

import (
	"sync"
	"sync/atomic"
	"time"
)

// defaultCleanInterval 默认清理间隔
const defaultCleanInterval = 60 * time.Second

// Sweeper 被清理器驱动的对象，返回本次删除的过期条目数
type Sweeper interface {
	SweepExpired() int
}

// Cleaner periodically sweeps expired entries out of a cache engine.
// Reads already self-heal on expired entries, so the cleaner only exists to
// bound memory held by keys that are written once and never read again.
//
// Cleaner 定期从缓存引擎中清扫过期条目。
// 读取已经对过期条目自我修复，因此清理器的存在只是为了限制
// 写入一次后再也不被读取的键占用的内存。
type Cleaner struct {
	sweeper  Sweeper
	interval time.Duration

	closeChan chan struct{} // 关闭信号
	closeOnce sync.Once     // 确保只关闭一次
	wg        sync.WaitGroup

	sweepCount    uint64 // 清理次数
	expiredCount  uint64 // 累计过期项数量
	sweepDuration int64  // 最近一次清理耗时（纳秒）
}

// NewCleaner creates a cleaner and starts its background loop.
//
// NewCleaner 创建清理器并启动其后台循环。
//
// Parameters:
//   - sweeper: The engine to sweep
//   - interval: The sweep interval; non-positive values use the 60s default
//
// Returns:
//   - *Cleaner: A running cleaner
func NewCleaner(sweeper Sweeper, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = defaultCleanInterval
	}

	c := &Cleaner{
		sweeper:   sweeper,
		interval:  interval,
		closeChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.loop()
	return c
}

// loop 清理循环，定期触发一次扫描
func (c *Cleaner) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.closeChan:
			return
		}
	}
}

// sweep 执行一次扫描并更新统计信息
func (c *Cleaner) sweep() int {
	start := time.Now()
	removed := c.sweeper.SweepExpired()

	atomic.AddUint64(&c.sweepCount, 1)
	atomic.AddUint64(&c.expiredCount, uint64(removed))
	atomic.StoreInt64(&c.sweepDuration, time.Since(start).Nanoseconds())
	return removed
}

// ForceClean runs one sweep immediately, outside the timer schedule.
//
// ForceClean 立即执行一次清扫，不受定时器计划约束。
//
// Returns:
//   - int: The number of expired entries removed
func (c *Cleaner) ForceClean() int {
	return c.sweep()
}

// GetStats 返回清理器的运行统计信息
func (c *Cleaner) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"sweep_count":    atomic.LoadUint64(&c.sweepCount),
		"expired_count":  atomic.LoadUint64(&c.expiredCount),
		"sweep_duration": time.Duration(atomic.LoadInt64(&c.sweepDuration)).String(),
		"sweep_interval": c.interval.String(),
	}
}

// Close stops the background loop. Safe to call more than once.
//
// Close 停止后台循环。可以多次调用。
func (c *Cleaner) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.wg.Wait()
	})
}
