package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/validation"
)

// maxGroupTitle 按字符计
const maxGroupTitle = 200

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

// GroupService 分组只读接口，创建与删除由 CLI 调用
type GroupService interface {
	Get(ctx context.Context, id string) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	Create(ctx context.Context, in CreateGroupInput) (*model.Group, error)
	Delete(ctx context.Context, slug string) error
}

type groupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) Get(ctx context.Context, id string) (*model.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}

func (s *groupService) Create(ctx context.Context, in CreateGroupInput) (*model.Group, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > maxGroupTitle {
		return nil, ErrInvalidTitle
	}
	slug := strings.TrimSpace(in.Slug)
	if !validation.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}
	if _, err := s.groups.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(notFound(err), ErrNotFound) {
		return nil, err
	}

	g := &model.Group{Title: title, Slug: slug, Description: strings.TrimSpace(in.Description)}
	if err := s.groups.Create(ctx, g); err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	logger.Info("group created", zap.String("group_id", g.ID), zap.String("slug", g.Slug))
	return g, nil
}

func (s *groupService) Delete(ctx context.Context, slug string) error {
	if err := s.groups.DeleteBySlug(ctx, slug); err != nil {
		return notFound(err)
	}
	logger.Info("group deleted", zap.String("slug", slug))
	return nil
}
