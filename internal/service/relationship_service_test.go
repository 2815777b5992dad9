package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	follower := f.user(t, "follower")
	author := f.user(t, "author")

	require.NoError(t, f.relationSvc.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, f.relationSvc.Follow(ctx, follower.ID, author.ID))

	n, err := f.relationSvc.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := f.relationSvc.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFollowSelfIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "me")

	require.NoError(t, f.relationSvc.Follow(ctx, u.ID, u.ID))
	n, err := f.relationSvc.CountFollowers(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFollowErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "me")

	assert.ErrorIs(t, f.relationSvc.Follow(ctx, "", u.ID), ErrUnauthenticated)
	assert.ErrorIs(t, f.relationSvc.Follow(ctx, u.ID, "ghost"), ErrNotFound)
	assert.ErrorIs(t, f.relationSvc.Unfollow(ctx, u.ID, "ghost"), ErrNotFollowing)
	assert.ErrorIs(t, f.relationSvc.Unfollow(ctx, "", u.ID), ErrUnauthenticated)
}

func TestUnfollowRemovesAuthorFromFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	follower := f.user(t, "follower")
	author := f.user(t, "author")
	f.post(t, author, "hello followers")

	require.NoError(t, f.relationSvc.Follow(ctx, follower.ID, author.ID))
	feed, err := f.postSvc.ListFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "hello followers", feed.Items[0].Text)

	require.NoError(t, f.relationSvc.Unfollow(ctx, follower.ID, author.ID))
	feed, err = f.postSvc.ListFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestFeedExcludesNonFollowedAuthors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	follower := f.user(t, "follower")
	author := f.user(t, "author")
	stranger := f.user(t, "stranger")
	f.post(t, author, "followed")
	f.post(t, stranger, "not followed")

	require.NoError(t, f.relationSvc.Follow(ctx, follower.ID, author.ID))

	feed, err := f.postSvc.ListFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	for _, p := range feed.Items {
		assert.NotEqual(t, stranger.ID, p.AuthorID)
	}
	assert.Len(t, feed.Items, 1)

	// 陌生人的动态里也看不到
	strangerFeed, err := f.postSvc.ListFeed(ctx, stranger.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, strangerFeed.Items)
}

func TestListFollowing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.user(t, "me")
	a := f.user(t, "a")
	b := f.user(t, "b")
	require.NoError(t, f.relationSvc.Follow(ctx, me.ID, a.ID))
	require.NoError(t, f.relationSvc.Follow(ctx, me.ID, b.ID))

	ids, err := f.relationSvc.ListFollowing(ctx, me.ID, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	ids, err = f.relationSvc.ListFollowing(ctx, me.ID, 2, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
