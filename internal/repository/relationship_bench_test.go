package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/yatube/internal/model"
)

func BenchmarkFollowWrite_And_FanRedundancy(b *testing.B) {
	db := setupDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{ID: fmt.Sprintf("u%04d", i), Username: fmt.Sprintf("u%04d", i), PasswordHash: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
		_ = fanRepo.Create(ctx, to, from)
	}
}

func BenchmarkFeedQuery(b *testing.B) {
	db := setupDB(b)
	followRepo := NewFollowRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	// reader 关注 50 个作者，每人 20 条帖子
	reader := mustUser(b, db, "reader")
	for i := 0; i < 50; i++ {
		author := mustUser(b, db, fmt.Sprintf("author%02d", i))
		for j := 0; j < 20; j++ {
			p := &model.Post{Text: "bench", AuthorID: author.ID}
			if err := postRepo.Create(ctx, p); err != nil {
				b.Fatalf("seed post: %v", err)
			}
		}
		if err := followRepo.Create(ctx, reader.ID, author.ID); err != nil {
			b.Fatalf("follow: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := postRepo.List(ctx, PostQuery{FollowedBy: reader.ID}, 0, 10); err != nil {
			b.Fatal(err)
		}
	}
}
