package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	// Follow 幂等；关注自己是 no-op
	Follow(ctx context.Context, userID, authorID string) error
	// Unfollow 关系不存在时返回 ErrNotFollowing
	Unfollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	CountFollowers(ctx context.Context, authorID string) (int64, error)
	// RebuildFans 用 follows 修复粉丝冗余表（队列满时丢弃的任务）
	RebuildFans(ctx context.Context, userID string) (int64, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	fanRepo    repository.FanRepository
	users      repository.UserRepository
	replicator *FanReplicator
}

// NewRelationshipService replicator 为 nil 时不维护粉丝冗余表
func NewRelationshipService(followRepo repository.FollowRepository, fanRepo repository.FanRepository, users repository.UserRepository, replicator *FanReplicator) RelationshipService {
	return &relationshipService{followRepo: followRepo, fanRepo: fanRepo, users: users, replicator: replicator}
}

func (s *relationshipService) Follow(ctx context.Context, userID, authorID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if userID == authorID {
		logger.Debug("self follow ignored", zap.String("user_id", userID))
		return nil
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return notFound(err)
	}
	if err := s.followRepo.Create(ctx, userID, authorID); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if s.replicator != nil {
		s.replicator.EnqueueAdd(authorID, userID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, userID, authorID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	deleted, err := s.followRepo.Delete(ctx, userID, authorID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if !deleted {
		return ErrNotFollowing
	}
	if s.replicator != nil {
		s.replicator.EnqueueRemove(authorID, userID)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" || authorID == "" {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func normalizePage(page, pageSize int) (offset, limit int) {
	p := pagination.New(page, pageSize, 10)
	return p.Offset, p.PageSize
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := normalizePage(page, pageSize)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.AuthorID
	}
	return res, nil
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	offset, limit := normalizePage(page, pageSize)
	return s.fanRepo.ListFanIDs(ctx, userID, offset, limit)
}

func (s *relationshipService) CountFollowers(ctx context.Context, authorID string) (int64, error) {
	return s.followRepo.CountFollowers(ctx, authorID)
}

func (s *relationshipService) RebuildFans(ctx context.Context, userID string) (int64, error) {
	n, err := s.fanRepo.Rebuild(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("rebuild fans: %w", err)
	}
	logger.Info("fans rebuilt", zap.String("user_id", userID), zap.Int64("fans", n))
	return n, nil
}
