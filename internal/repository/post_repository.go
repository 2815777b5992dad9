package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// PostQuery 列表过滤条件，空字段表示不过滤
type PostQuery struct {
	GroupID  string
	AuthorID string
	// FollowedBy 只返回该用户关注的作者的帖子（关注流）
	FollowedBy string
}

// PostRepository 帖子仓储，列表统一按 created_at DESC, id DESC 排序
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q PostQuery, offset, limit int) ([]*model.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("posts.id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("text", "group_id", "image", "updated_at").
		Updates(map[string]interface{}{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image":      post.Image,
			"updated_at": post.UpdatedAt,
		}).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *postRepository) scope(ctx context.Context, q PostQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Post{})
	if q.GroupID != "" {
		tx = tx.Where("posts.group_id = ?", q.GroupID)
	}
	if q.AuthorID != "" {
		tx = tx.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.FollowedBy != "" {
		sub := r.db.Model(&model.Follow{}).Select("author_id").Where("user_id = ?", q.FollowedBy)
		tx = tx.Where("posts.author_id IN (?)", sub)
	}
	return tx
}

func (r *postRepository) List(ctx context.Context, q PostQuery, offset, limit int) ([]*model.Post, int64, error) {
	var total int64
	if err := r.scope(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if int64(offset) >= total {
		return []*model.Post{}, total, nil
	}

	var res []*model.Post
	err := r.scope(ctx, q).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Scopes(pagination.Window(offset, limit)).
		Find(&res).Error
	if err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}
