package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/database"
)

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	groups   repository.GroupRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	fans     repository.FanRepository
	images   *memoryImages
	cache    *cache.RedisPageCache
	redis    *miniredis.Miniredis

	postSvc     PostService
	commentSvc  CommentService
	relationSvc RelationshipService
	userSvc     UserService
	groupSvc    GroupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		groups:   repository.NewGroupRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
		fans:     repository.NewFanRepository(db),
		images:   newMemoryImages(),
		cache:    cache.NewRedisPageCache(client, "test", 20*time.Second),
		redis:    mr,
	}
	f.postSvc = NewPostService(f.posts, f.groups, f.images, f.cache, 10)
	f.commentSvc = NewCommentService(f.comments, f.posts)
	f.relationSvc = NewRelationshipService(f.follows, f.fans, f.users, nil)
	f.userSvc = NewUserService(f.users)
	f.groupSvc = NewGroupService(f.groups)
	return f
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, f.groups.Create(context.Background(), g))
	return g
}

func (f *fixture) post(t *testing.T, author *model.User, text string) *model.Post {
	t.Helper()
	p, err := f.postSvc.CreatePost(context.Background(), author, CreatePostInput{Text: text})
	require.NoError(t, err)
	return p
}

// memoryImages 内存版 ImageStore
type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (m *memoryImages) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = b
	return nil
}

func (m *memoryImages) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

func (m *memoryImages) URL(name string) string { return "http://img.test/" + name }

func (m *memoryImages) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[name]
	return ok
}

// smallGIF 1x1 透明 gif
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func gifUpload() *ImageUpload {
	return &ImageUpload{
		Filename:    "small.gif",
		ContentType: "image/gif",
		Size:        int64(len(smallGIF)),
		Reader:      bytes.NewReader(smallGIF),
	}
}
