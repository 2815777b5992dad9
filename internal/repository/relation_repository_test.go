package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/model"
)

func TestFollowIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a")
	b := mustUser(t, db, "b")

	require.NoError(t, repo.Create(ctx, a.ID, b.ID))
	require.NoError(t, repo.Create(ctx, a.ID, b.ID))

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	followers, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	list, err := repo.ListFollowings(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].AuthorID)
}

func TestFollowDeleteReportsMissing(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a")
	b := mustUser(t, db, "b")

	deleted, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, repo.Create(ctx, a.ID, b.ID))
	deleted, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSelfFollowRejectedByStore(t *testing.T) {
	db := setupDB(t)
	a := mustUser(t, db, "a")

	err := NewFollowRepository(db).Create(context.Background(), a.ID, a.ID)
	assert.Error(t, err)
}

func TestFanRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewFanRepository(db)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	fan1 := mustUser(t, db, "fan1")
	fan2 := mustUser(t, db, "fan2")

	require.NoError(t, repo.Create(ctx, author.ID, fan1.ID))
	require.NoError(t, repo.Create(ctx, author.ID, fan1.ID))
	require.NoError(t, repo.Create(ctx, author.ID, fan2.ID))

	ids, err := repo.ListFanIDs(ctx, author.ID, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{fan1.ID, fan2.ID}, ids)

	require.NoError(t, repo.Delete(ctx, author.ID, fan1.ID))
	ids, err = repo.ListFanIDs(ctx, author.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{fan2.ID}, ids)

	n, err := repo.Count(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFanRebuildFollowsFollowTable(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	fans := NewFanRepository(db)
	follows := NewFollowRepository(db)
	author := mustUser(t, db, "author")
	fan1 := mustUser(t, db, "fan1")
	fan2 := mustUser(t, db, "fan2")
	stale := mustUser(t, db, "stale")

	require.NoError(t, follows.Create(ctx, fan1.ID, author.ID))
	require.NoError(t, follows.Create(ctx, fan2.ID, author.ID))
	// 冗余表与 follows 不一致：缺 fan2，多 stale
	require.NoError(t, fans.Create(ctx, author.ID, fan1.ID))
	require.NoError(t, fans.Create(ctx, author.ID, stale.ID))

	n, err := fans.Rebuild(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	ids, err := fans.ListFanIDs(ctx, author.ID, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{fan1.ID, fan2.ID}, ids)

	n, err = fans.Rebuild(ctx, stale.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFanDeletedWithUser(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	fans := NewFanRepository(db)
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	require.NoError(t, fans.Create(ctx, author.ID, fan.ID))

	require.NoError(t, NewUserRepository(db).Delete(ctx, fan.ID))
	n, err := fans.Count(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserAndGroupRepositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)

	u := &model.User{Username: "leo", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, u))
	got, err := users.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	g := &model.Group{Title: "Books", Slug: "books"}
	require.NoError(t, groups.Create(ctx, g))
	byID, err := groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "books", byID.Slug)

	all, err := groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, groups.DeleteBySlug(ctx, "books"))
	assert.Error(t, groups.DeleteBySlug(ctx, "books"))

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	assert.Error(t, err)
}

func TestCommentRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	post := &model.Post{ID: "p1", Text: "t", AuthorID: author.ID}
	require.NoError(t, db.Create(post).Error)

	repo := NewCommentRepository(db)
	c := &model.Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Get(ctx, post.ID, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "author", got.Author.Username)

	_, err = repo.Get(ctx, "other-post", c.ID)
	assert.Error(t, err, "comment is scoped to its post")

	require.NoError(t, repo.UpdateText(ctx, c.ID, "second"))
	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Text)

	n, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, c.ID))
	n, err = repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
