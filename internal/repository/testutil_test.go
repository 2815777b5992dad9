package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(tb, err)
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{ID: "u-" + username, Username: username, PasswordHash: "x"}
	require.NoError(tb, db.Create(u).Error)
	return u
}

// mustPosts 创建 n 条帖子，第 i 条比第 i-1 条晚一分钟
func mustPosts(tb testing.TB, db *gorm.DB, author *model.User, groupID *string, n int, base time.Time) []*model.Post {
	tb.Helper()
	posts := make([]*model.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = &model.Post{
			ID:        fmt.Sprintf("%s-post-%02d", author.Username, i),
			Text:      fmt.Sprintf("post %d by %s", i, author.Username),
			AuthorID:  author.ID,
			GroupID:   groupID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(tb, db.Create(posts[i]).Error)
	}
	return posts
}
