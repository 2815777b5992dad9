package model

import "time"

// Comment 评论，随帖子或作者一起级联删除
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"post" gorm:"type:varchar(36);not null;index:idx_comment_post"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"-"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) OwnerID() string { return c.AuthorID }
