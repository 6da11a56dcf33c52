package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/internal/metrics"
	"github.com/Humphrey-He/tiercache/pkg/store"
)

// mirrorOpTimeout bounds each persistent store call made by the worker.
// mirrorOpTimeout 限制工作协程进行的每次持久存储调用。
const mirrorOpTimeout = 5 * time.Second

type mirrorOpKind int

const (
	mirrorPut mirrorOpKind = iota
	mirrorDelete
	mirrorFlush
)

// mirrorOp 一个排队的写穿任务
type mirrorOp struct {
	kind mirrorOpKind
	key  string
	data []byte
	ttl  time.Duration
	ack  chan struct{} // Only set for mirrorFlush / 仅用于mirrorFlush
}

// mirror applies write-through tasks to the persistent store from a single
// background worker. The queue is bounded; when it is full the task is
// dropped and counted rather than blocking the caller. Failures are logged
// and counted, never surfaced.
//
// mirror 从单个后台工作协程将写穿任务应用到持久存储。
// 队列是有界的；队列已满时任务被丢弃并计数，而不是阻塞调用者。
// 失败会被记录和计数，从不向上暴露。
type mirror struct {
	store   store.Store
	queue   chan mirrorOp
	done    chan struct{}
	logger  *zap.Logger
	metrics *metrics.Metrics

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// newMirror 创建镜像队列并启动其工作协程
func newMirror(st store.Store, queueSize int, logger *zap.Logger, m *metrics.Metrics) *mirror {
	mir := &mirror{
		store:   st,
		queue:   make(chan mirrorOp, queueSize),
		done:    make(chan struct{}),
		logger:  logger,
		metrics: m,
	}
	mir.wg.Add(1)
	go mir.worker()
	return mir
}

// enqueuePut 排队一次存储写入，队列已满或已关闭时丢弃
func (m *mirror) enqueuePut(key string, data []byte, ttl time.Duration) {
	m.enqueue(mirrorOp{kind: mirrorPut, key: key, data: data, ttl: ttl})
}

// enqueueDelete 排队一次存储删除，队列已满或已关闭时丢弃
func (m *mirror) enqueueDelete(key string) {
	m.enqueue(mirrorOp{kind: mirrorDelete, key: key})
}

func (m *mirror) enqueue(op mirrorOp) {
	select {
	case <-m.done:
		return
	default:
	}

	select {
	case m.queue <- op:
	default:
		m.metrics.RecordMirrorDrop()
		m.logger.Warn("write-through queue full, task dropped",
			zap.String("key", op.key))
	}
}

// flush blocks until every task queued before the call has been applied.
// flush 阻塞直到调用之前排队的每个任务都已应用。
func (m *mirror) flush() {
	select {
	case <-m.done:
		return
	default:
	}

	ack := make(chan struct{})
	select {
	case m.queue <- mirrorOp{kind: mirrorFlush, ack: ack}:
		select {
		case <-ack:
		case <-m.done:
		}
	case <-m.done:
	}
}

// close drains the queue and stops the worker. Safe to call more than once.
// close 清空队列并停止工作协程。可以多次调用。
func (m *mirror) close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
	})
}

// worker 依次应用排队的任务；done关闭后清空剩余任务再退出
func (m *mirror) worker() {
	defer m.wg.Done()
	for {
		select {
		case op := <-m.queue:
			m.apply(op)
		case <-m.done:
			for {
				select {
				case op := <-m.queue:
					m.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (m *mirror) apply(op mirrorOp) {
	if op.kind == mirrorFlush {
		close(op.ack)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorOpTimeout)
	defer cancel()

	var err error
	switch op.kind {
	case mirrorPut:
		err = m.store.Put(ctx, op.key, op.data, op.ttl)
	case mirrorDelete:
		err = m.store.Delete(ctx, op.key)
	}
	if err != nil {
		m.metrics.RecordStoreError()
		m.logger.Warn("write-through task failed",
			zap.String("key", op.key),
			zap.Error(err))
	}
}
