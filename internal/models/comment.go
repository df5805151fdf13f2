package models

import (
	"time"
)

// Comment is a node in the per-post reply tree, stored as an adjacency list.
// ParentCommentID nil means top-level (depth 0); otherwise depth is always
// parent depth + 1. CommentCount counts direct replies only, not the subtree.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"size:36;not null;index" json:"userId"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID          uint      `gorm:"not null;index" json:"postId"`
	Post            Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentCommentID *uint     `gorm:"index" json:"parentCommentId"` // Nullable for top-level comments
	Content         string    `gorm:"type:text;not null" json:"content"`
	Depth           int       `gorm:"not null;default:0" json:"depth"`
	CommentCount    int       `gorm:"not null;default:0" json:"commentCount"`
	Points          int       `gorm:"not null;default:0" json:"points"`
	CreatedAt       time.Time `json:"createdAt"`

	// 非数据库字段，查询时填充
	Author         Author             `gorm:"-" json:"author"`
	CommentUpvotes []CommentUpvoteRef `gorm:"-" json:"commentUpvotes"`
	ChildComments  []Comment          `gorm:"-" json:"childComments"`
}

// CommentUpvoteRef marks that the requesting user has upvoted a comment.
// At most one entry is ever attached: the viewer's own.
type CommentUpvoteRef struct {
	UserID string `json:"userId"`
}
