package model

import "time"

// Post 帖子。作者删除时级联删除；分组删除时 group_id 置空
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null;index:idx_post_author"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID   *string   `json:"group_id" gorm:"type:varchar(36);index:idx_post_group"`
	Group     *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image     *string   `json:"image" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"pub_date" gorm:"index:idx_post_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// OwnerID 实现 policy.Owned
func (p *Post) OwnerID() string { return p.AuthorID }
