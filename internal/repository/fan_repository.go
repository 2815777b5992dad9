package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// FanRepository 粉丝冗余表，只由 FanReplicator 和 Rebuild 写入
type FanRepository interface {
	Create(ctx context.Context, userID, fanID string) error
	Delete(ctx context.Context, userID, fanID string) error
	// ListFanIDs 最近关注的在前
	ListFanIDs(ctx context.Context, userID string, offset, limit int) ([]string, error)
	Count(ctx context.Context, userID string) (int64, error)
	// Rebuild 以 follows 为准重建 userID 的粉丝，返回重建后的行数
	Rebuild(ctx context.Context, userID string) (int64, error)
}

type fanRepository struct{ db *gorm.DB }

func NewFanRepository(db *gorm.DB) FanRepository { return &fanRepository{db: db} }

func (r *fanRepository) Create(ctx context.Context, userID, fanID string) error {
	f := &model.Fan{ID: uuid.New().String(), UserID: userID, FanID: fanID}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
}

func (r *fanRepository) Delete(ctx context.Context, userID, fanID string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND fan_id = ?", userID, fanID).Delete(&model.Fan{}).Error
}

func (r *fanRepository) ListFanIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Model(&model.Fan{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Scopes(pagination.Window(offset, limit)).
		Pluck("fan_id", &ids).Error
	return ids, err
}

func (r *fanRepository) Count(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Fan{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *fanRepository) Rebuild(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var follows []model.Follow
		if err := tx.Where("author_id = ?", userID).Find(&follows).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Fan{}).Error; err != nil {
			return err
		}
		if len(follows) == 0 {
			return nil
		}
		fans := make([]model.Fan, len(follows))
		for i, f := range follows {
			fans[i] = model.Fan{ID: uuid.New().String(), UserID: userID, FanID: f.UserID, CreatedAt: f.CreatedAt}
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&fans, 500).Error; err != nil {
			return err
		}
		n = int64(len(fans))
		return nil
	})
	return n, err
}
