package engine

import (
	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/internal/storage"
)

// makeRoom frees one slot in the tier at position idx. The strict-LRU victim
// is demoted to the next tier down (strictly lower weight), recursively making
// room there first. When no lower tier exists the victim is evicted outright;
// an eviction from the write-through tier also deletes the key from the
// persistent store.
//
// makeRoom 在位置idx的层级中释放一个槽位。严格LRU受害者被降级到下一个
// 更低的层级（权重严格更低），并先递归地在那里腾出空间。当不存在更低层级时，
// 受害者被直接淘汰；从写穿层级淘汰还会从持久存储中删除该键。
//
// Callers must hold e.mu.
// 调用者必须持有e.mu。
func (e *Engine) makeRoom(idx int) {
	tier := e.tiers[idx]
	for tier.Full() {
		victim := tier.LRU()
		if victim == nil {
			return
		}

		lower := e.lowerTier(idx)
		if lower < 0 {
			tier.Remove(victim.Key)
			e.metrics.AddItems(idx, -1)
			e.metrics.RecordEviction(idx)
			if idx == 0 && e.mirror != nil {
				e.mirror.enqueueDelete(victim.Key)
			}
			e.logger.Debug("entry evicted",
				zap.String("cache", e.name),
				zap.String("tier", tier.Name()),
				zap.String("key", victim.Key))
			continue
		}

		// Demote, cascading the capacity check downward first.
		// 降级，先向下级联容量检查。
		e.makeRoom(lower)
		tier.Remove(victim.Key)
		e.metrics.AddItems(idx, -1)
		e.move(victim, lower)
		e.metrics.RecordDemotion()
	}
}

// promote moves an already-hot entry from position idx one tier up, to the
// tier with the smallest weight strictly greater than its current weight.
// The value, access count, and expiry are carried over untouched.
//
// promote 将位置idx上已经热起来的条目向上移动一个层级，移动到权重严格大于
// 其当前权重中最小的层级。值、访问计数和过期时间原样保留。
//
// Callers must hold e.mu.
// 调用者必须持有e.mu。
func (e *Engine) promote(idx int, entry *storage.Entry) {
	target := e.upperTier(idx)
	if target < 0 {
		return
	}

	e.tiers[idx].Remove(entry.Key)
	e.metrics.AddItems(idx, -1)

	if e.tiers[target].Full() {
		e.makeRoom(target)
	}
	e.move(entry, target)
	e.metrics.RecordPromotion()
}

// move 将已分离的条目放入位置idx的层级，并更新计数
func (e *Engine) move(entry *storage.Entry, idx int) {
	e.tiers[idx].Put(entry)
	e.metrics.AddItems(idx, 1)
}

// lowerTier returns the position of the nearest tier whose weight is strictly
// below that of the tier at idx, or -1 when none exists. Equal-weight
// neighbors are skipped so demotion never moves an entry sideways.
//
// lowerTier 返回权重严格低于位置idx层级的最近层级位置，不存在时返回-1。
// 跳过权重相等的相邻层级，因此降级永远不会横向移动条目。
func (e *Engine) lowerTier(idx int) int {
	weight := e.tiers[idx].Weight()
	for j := idx + 1; j < len(e.tiers); j++ {
		if e.tiers[j].Weight() < weight {
			return j
		}
	}
	return -1
}

// upperTier 返回权重严格高于位置idx层级的最近层级位置，不存在时返回-1
func (e *Engine) upperTier(idx int) int {
	weight := e.tiers[idx].Weight()
	for j := idx - 1; j >= 0; j-- {
		if e.tiers[j].Weight() > weight {
			return j
		}
	}
	return -1
}
