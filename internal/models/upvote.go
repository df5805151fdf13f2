package models

import (
	"time"
)

// PostUpvote existence means the user has upvoted the post; deletion means
// un-upvote. The composite unique index makes concurrent identical toggles
// lose at the database instead of double-inserting.
type PostUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_upvote_once" json:"post_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_upvote_once" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_upvote_once" json:"comment_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_comment_upvote_once" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
