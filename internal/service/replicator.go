package service

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

type replicateJob struct {
	action replicateAction
	userID string
	fanID  string
}

// FanReplicator 异步把关注关系冗余到 fans 表。
// 同一 (userID, fanID) 的任务总是进入同一个 shard，由同一个 worker 按入队顺序执行。
// 队列满时丢弃并告警，follows 表始终是权威数据，可用 RebuildFans 修复。
type FanReplicator struct {
	fanRepo repository.FanRepository
	shards  []chan replicateJob
	timeout time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewFanReplicator queueSize 平均分给 workers 个 shard
func NewFanReplicator(fanRepo repository.FanRepository, queueSize, workers int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if workers <= 0 {
		workers = 4
	}
	perShard := max(queueSize/workers, 1)
	shards := make([]chan replicateJob, workers)
	for i := range shards {
		shards[i] = make(chan replicateJob, perShard)
	}
	return &FanReplicator{fanRepo: fanRepo, shards: shards, timeout: 5 * time.Second}
}

// Start 每个 shard 启动一个 worker，返回的函数关闭队列并等待排空（受 ctx 限制）
func (r *FanReplicator) Start() func(context.Context) error {
	r.mu.Lock()
	if !r.started && !r.stopped {
		r.started = true
		for _, ch := range r.shards {
			r.wg.Add(1)
			go func(ch <-chan replicateJob) {
				defer r.wg.Done()
				for job := range ch {
					r.apply(job)
				}
			}(ch)
		}
	}
	r.mu.Unlock()

	return func(ctx context.Context) error {
		r.mu.Lock()
		if !r.stopped {
			r.stopped = true
			for _, ch := range r.shards {
				close(ch)
			}
		}
		r.mu.Unlock()

		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			logger.Warn("replicator stopped before queue drained", zap.Int("pending", r.QueueLen()))
			return ctx.Err()
		}
	}
}

func (r *FanReplicator) shard(job replicateJob) chan replicateJob {
	h := xxhash.Sum64String(job.userID + "\x00" + job.fanID)
	return r.shards[h%uint64(len(r.shards))]
}

func (r *FanReplicator) apply(job replicateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var err error
	switch job.action {
	case actionAdd:
		err = r.fanRepo.Create(ctx, job.userID, job.fanID)
	case actionRemove:
		err = r.fanRepo.Delete(ctx, job.userID, job.fanID)
	}
	if err != nil {
		logger.Error("fan replication failed",
			zap.Error(err),
			zap.Int("action", int(job.action)),
			zap.String("user", job.userID),
			zap.String("fan", job.fanID),
		)
	}
}

func (r *FanReplicator) enqueue(job replicateJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	select {
	case r.shard(job) <- job:
	default:
		logger.Warn("replicator queue full, drop job",
			zap.Int("action", int(job.action)),
			zap.String("user", job.userID),
			zap.String("fan", job.fanID),
		)
	}
}

func (r *FanReplicator) EnqueueAdd(userID, fanID string) {
	r.enqueue(replicateJob{action: actionAdd, userID: userID, fanID: fanID})
}

func (r *FanReplicator) EnqueueRemove(userID, fanID string) {
	r.enqueue(replicateJob{action: actionRemove, userID: userID, fanID: fanID})
}

// QueueLen 返回所有 shard 的排队任务数（采样值）。
func (r *FanReplicator) QueueLen() int {
	n := 0
	for _, ch := range r.shards {
		n += len(ch)
	}
	return n
}
