package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/policy"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// CommentService 评论。任何登录用户都可以评论，修改和删除只允许作者本人
type CommentService interface {
	AddComment(ctx context.Context, actor *model.User, postID, text string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
	GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error)
	EditComment(ctx context.Context, actor *model.User, postID, commentID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, actor *model.User, postID, commentID string) error
	CountComments(ctx context.Context, postID string) (int64, error)
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) ensurePost(ctx context.Context, postID string) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *commentService) AddComment(ctx context.Context, actor *model.User, postID, text string) (*model.Comment, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	c := &model.Comment{PostID: postID, AuthorID: actor.ID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	c.Author = actor
	logger.Info("comment added", zap.String("post_id", postID), zap.String("comment_id", c.ID))
	return c, nil
}

func (s *commentService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *commentService) GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	c, err := s.comments.Get(ctx, postID, commentID)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *commentService) EditComment(ctx context.Context, actor *model.User, postID, commentID, text string) (*model.Comment, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwner(actor, c); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.comments.UpdateText(ctx, c.ID, text); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	c.Text = text
	return c, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor *model.User, postID, commentID string) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if err := policy.RequireOwner(actor, c); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	logger.Info("comment deleted", zap.String("post_id", postID), zap.String("comment_id", c.ID))
	return nil
}

func (s *commentService) CountComments(ctx context.Context, postID string) (int64, error) {
	return s.comments.CountByPost(ctx, postID)
}
