package models

import (
	"time"
)

// Post is a submitted link or text story. Points and CommentCount are
// denormalized aggregates, only ever written through the transactional
// upvote/comment paths, never by readers.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"size:36;not null;index" json:"-"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title        string    `gorm:"not null" json:"title"`
	URL          string    `json:"url"` // Optional
	Content      string    `gorm:"type:text" json:"content"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`

	// 非数据库字段，查询时填充
	Author    Author `gorm:"-" json:"author"`
	IsUpvoted bool   `gorm:"-" json:"isUpvoted"`
}
