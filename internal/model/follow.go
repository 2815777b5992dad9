package model

import (
	"time"
)

// Follow 关注关系（User 关注 Author）
type Follow struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"type:varchar(36);not null;index:idx_follow_user;index:idx_follow_pair,unique;check:chk_follows_not_self,user_id <> author_id"`
	AuthorID string `gorm:"type:varchar(36);not null;index:idx_follow_author;index:idx_follow_pair,unique"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (user_id, author_id)
	// chk_follows_not_self 在数据层禁止自己关注自己
	User      *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
