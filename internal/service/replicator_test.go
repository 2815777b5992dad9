package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/repository"
)

func TestFanReplicatorMirrorsFollows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rep := NewFanReplicator(f.fans, 16, 2)
	stop := rep.Start()
	svc := NewRelationshipService(f.follows, f.fans, f.users, rep)

	fan := f.user(t, "fan")
	author := f.user(t, "author")
	require.NoError(t, svc.Follow(ctx, fan.ID, author.ID))

	assert.Eventually(t, func() bool {
		ids, err := svc.ListFans(ctx, author.ID, 1, 10)
		return err == nil && len(ids) == 1 && ids[0] == fan.ID
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Unfollow(ctx, fan.ID, author.ID))
	assert.Eventually(t, func() bool {
		ids, err := svc.ListFans(ctx, author.ID, 1, 10)
		return err == nil && len(ids) == 0
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))
}

// slowFans 让 Create 变慢，使后入队的 Delete 有机会先执行
type slowFans struct {
	repository.FanRepository
	delay time.Duration
}

func (s slowFans) Create(ctx context.Context, userID, fanID string) error {
	time.Sleep(s.delay)
	return s.FanRepository.Create(ctx, userID, fanID)
}

func TestFanReplicatorKeepsPairOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rep := NewFanReplicator(slowFans{FanRepository: f.fans, delay: 100 * time.Millisecond}, 64, 4)
	stop := rep.Start()
	svc := NewRelationshipService(f.follows, f.fans, f.users, rep)

	author := f.user(t, "author")
	var fans []string
	for i := 0; i < 6; i++ {
		u := f.user(t, fmt.Sprintf("fan%d", i))
		fans = append(fans, u.ID)
		require.NoError(t, svc.Follow(ctx, u.ID, author.ID))
		require.NoError(t, svc.Unfollow(ctx, u.ID, author.ID))
	}
	// 最后一个重新关注，顺序执行后应只剩它
	require.NoError(t, svc.Follow(ctx, fans[5], author.ID))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	ids, err := svc.ListFans(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{fans[5]}, ids)
}

func TestFanReplicatorSplitsQueueAcrossShards(t *testing.T) {
	f := newFixture(t)
	rep := NewFanReplicator(f.fans, 8, 4)
	require.Len(t, rep.shards, 4)
	for _, ch := range rep.shards {
		assert.Equal(t, 2, cap(ch))
	}

	// 同一对总是落到同一个 shard
	job := replicateJob{action: actionAdd, userID: "author", fanID: "fan"}
	assert.Equal(t, rep.shard(job), rep.shard(replicateJob{action: actionRemove, userID: "author", fanID: "fan"}))
}

func TestRebuildFansAfterDroppedJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 不启动 worker，队列容量 1：第二个任务被丢弃
	rep := NewFanReplicator(f.fans, 1, 1)
	svc := NewRelationshipService(f.follows, f.fans, f.users, rep)
	author := f.user(t, "author")
	a := f.user(t, "a")
	b := f.user(t, "b")
	require.NoError(t, svc.Follow(ctx, a.ID, author.ID))
	require.NoError(t, svc.Follow(ctx, b.ID, author.ID))

	ids, err := svc.ListFans(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	n, err := svc.RebuildFans(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	ids, err = svc.ListFans(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestFanReplicatorIgnoresJobsAfterStop(t *testing.T) {
	f := newFixture(t)
	rep := NewFanReplicator(f.fans, 1, 1)
	stop := rep.Start()
	require.NoError(t, stop(context.Background()))
	require.NoError(t, stop(context.Background()))

	rep.EnqueueAdd("a", "b")
	assert.Zero(t, rep.QueueLen())
}

func TestFanReplicatorDropsWhenFull(t *testing.T) {
	f := newFixture(t)
	rep := NewFanReplicator(f.fans, 1, 1)

	rep.EnqueueAdd("a", "b")
	rep.EnqueueAdd("a", "c")
	assert.Equal(t, 1, rep.QueueLen())
}
