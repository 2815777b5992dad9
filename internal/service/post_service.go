package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/policy"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// IndexNamespace 首页缓存命名空间，任何帖子写操作都会使其失效
const IndexNamespace = "posts:index"

// PostFilter 列表过滤，空字段表示不过滤
type PostFilter struct {
	GroupID  string
	AuthorID string
}

// ImageUpload 上传的图片
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CreatePostInput struct {
	Text    string
	GroupID *string
	Image   *ImageUpload
}

// EditPostInput nil 字段保持原值；SetGroup 为 true 时用 GroupID（可为 nil）覆盖分组
type EditPostInput struct {
	Text     *string
	GroupID  *string
	SetGroup bool
	Image    *ImageUpload
}

// PostService 帖子读写与关注流
type PostService interface {
	ListPosts(ctx context.Context, filter PostFilter, page int) (*pagination.Page[*model.Post], error)
	ListIndex(ctx context.Context, page int) (*pagination.Page[*model.Post], error)
	ListFeed(ctx context.Context, userID string, page int) (*pagination.Page[*model.Post], error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, actor *model.User, in CreatePostInput) (*model.Post, error)
	EditPost(ctx context.Context, actor *model.User, id string, in EditPostInput) (*model.Post, error)
	DeletePost(ctx context.Context, actor *model.User, id string) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	images   storage.ImageStore
	cache    cache.PageCache
	pageSize int
	now      func() time.Time
}

// NewPostService images 为 nil 时拒绝图片上传；pageCache 为 nil 时不缓存
func NewPostService(posts repository.PostRepository, groups repository.GroupRepository, images storage.ImageStore, pageCache cache.PageCache, pageSize int) PostService {
	if pageCache == nil {
		pageCache = cache.Nop{}
	}
	return &postService{
		posts:    posts,
		groups:   groups,
		images:   images,
		cache:    pageCache,
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *postService) list(ctx context.Context, q repository.PostQuery, page int) (*pagination.Page[*model.Post], error) {
	p := pagination.New(page, s.pageSize, s.pageSize)
	items, total, err := s.posts.List(ctx, q, p.Offset, p.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(items, p, total), nil
}

func (s *postService) ListPosts(ctx context.Context, filter PostFilter, page int) (*pagination.Page[*model.Post], error) {
	return s.list(ctx, repository.PostQuery{GroupID: filter.GroupID, AuthorID: filter.AuthorID}, page)
}

func (s *postService) ListIndex(ctx context.Context, page int) (*pagination.Page[*model.Post], error) {
	p := pagination.New(page, s.pageSize, s.pageSize)
	key := strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.PageSize)

	pageKey, err := s.cache.Key(ctx, IndexNamespace, key)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Warn("index cache read failed", zap.Error(err))
		return s.list(ctx, repository.PostQuery{}, p.Page)
	}

	var cached pagination.Page[*model.Post]
	hit, err := s.cache.Get(ctx, pageKey, &cached)
	if err != nil {
		logger.Warn("index cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	res, err := s.list(ctx, repository.PostQuery{}, p.Page)
	if err != nil {
		return nil, err
	}
	// 读库期间若有写入，版本已前进，这里写入的是旧版本 key
	if err := s.cache.Set(ctx, pageKey, res); err != nil {
		logger.Warn("index cache write failed", zap.Error(err))
	}
	return res, nil
}

func (s *postService) ListFeed(ctx context.Context, userID string, page int) (*pagination.Page[*model.Post], error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.list(ctx, repository.PostQuery{FollowedBy: userID}, page)
}

func (s *postService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *postService) CreatePost(ctx context.Context, actor *model.User, in CreatePostInput) (*model.Post, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	group, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &model.Post{
		Text:      text,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if in.Image != nil {
		key, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = &key
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if post.Image != nil {
			s.deleteImage(ctx, *post.Image)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = actor
	post.Group = group

	s.invalidateIndex(ctx)
	logger.Info("post created", zap.String("post_id", post.ID), zap.String("author_id", actor.ID))
	return post, nil
}

func (s *postService) EditPost(ctx context.Context, actor *model.User, id string, in EditPostInput) (*model.Post, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(actor, post) {
		logger.Debug("edit rejected: not the author", zap.String("post_id", id), zap.String("actor_id", actor.ID))
		return post, ErrForbidden
	}

	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return post, ErrEmptyText
		}
		post.Text = text
	}
	if in.SetGroup {
		group, err := s.resolveGroup(ctx, in.GroupID)
		if err != nil {
			return post, err
		}
		post.Group = group
		post.GroupID = nil
		if group != nil {
			post.GroupID = &group.ID
		}
	}

	var oldImage *string
	if in.Image != nil {
		key, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return post, err
		}
		oldImage = post.Image
		post.Image = &key
	}

	post.UpdatedAt = s.now()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if oldImage != nil {
		s.deleteImage(ctx, *oldImage)
	}

	s.invalidateIndex(ctx)
	logger.Info("post edited", zap.String("post_id", post.ID))
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, actor *model.User, id string) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.RequireOwner(actor, post); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if post.Image != nil {
		s.deleteImage(ctx, *post.Image)
	}

	s.invalidateIndex(ctx)
	logger.Info("post deleted", zap.String("post_id", id))
	return nil
}

func (s *postService) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return s.posts.CountByAuthor(ctx, authorID)
}

func (s *postService) resolveGroup(ctx context.Context, groupID *string) (*model.Group, error) {
	if groupID == nil || *groupID == "" {
		return nil, nil
	}
	g, err := s.groups.GetByID(ctx, *groupID)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *postService) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.images == nil {
		return "", ErrImagesDisabled
	}
	if !strings.HasPrefix(img.ContentType, "image/") || img.Size <= 0 {
		return "", ErrInvalidImage
	}
	key := storage.ObjectName(img.Filename)
	if err := s.images.Save(ctx, key, img.Reader, img.Size, img.ContentType); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

func (s *postService) deleteImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("orphaned image", zap.String("object", key), zap.Error(err))
	}
}

func (s *postService) invalidateIndex(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, IndexNamespace); err != nil {
		logger.Warn("index cache invalidation failed", zap.Error(err))
	}
}
