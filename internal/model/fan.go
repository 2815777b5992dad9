package model

import "time"

// Fan 粉丝冗余表：FanID 关注了 UserID。
// 由 FanReplicator 从 follows 异步写入，可用 FanRepository.Rebuild 修复
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);not null;index:idx_fan_user;index:idx_fan_pair,unique"`
	FanID     string `gorm:"type:varchar(36);not null;index:idx_fan_pair,unique"`
	User      *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Follower  *User  `gorm:"foreignKey:FanID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
