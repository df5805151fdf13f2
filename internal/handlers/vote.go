package handlers

import (
	"errors"
	"net/http"

	"kindling/internal/db"
	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// TogglePost flips the caller's upvote on a post: present row means
// un-upvote (points-1, delete), absent means upvote (points+1, insert).
// The whole check-then-act sequence runs in one transaction; the unique
// (post,user) index turns a concurrent double-insert into a rollback.
func (h *VoteHandler) TogglePost(c *gin.Context) {
	user := middleware.MustIdentity(c).User
	id := uint(utils.StringToInt(c.Param("id")))

	tx := db.DB.Begin()

	var existing models.PostUpvote
	err := tx.Where("post_id = ? AND user_id = ?", id, user.ID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		FailInternal(c, err)
		return
	}
	delta := 1
	if err == nil {
		delta = -1
	}

	res := tx.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		tx.Rollback()
		FailInternal(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		Fail(c, http.StatusNotFound, "Post not found")
		return
	}

	if delta == -1 {
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			FailInternal(c, err)
			return
		}
	} else {
		if err := tx.Create(&models.PostUpvote{PostID: id, UserID: user.ID}).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Fail(c, http.StatusConflict, "Already upvoted")
				return
			}
			FailInternal(c, err)
			return
		}
	}

	var points int
	if err := tx.Model(&models.Post{}).Select("points").Where("id = ?", id).Scan(&points).Error; err != nil {
		tx.Rollback()
		FailInternal(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		FailInternal(c, err)
		return
	}

	SuccessData(c, http.StatusOK, "Post updated", gin.H{
		"count":     points,
		"isUpvoted": delta > 0,
	})
}

// ToggleComment is the same toggle scoped to comments.
func (h *VoteHandler) ToggleComment(c *gin.Context) {
	user := middleware.MustIdentity(c).User
	id := uint(utils.StringToInt(c.Param("id")))

	tx := db.DB.Begin()

	var existing models.CommentUpvote
	err := tx.Where("comment_id = ? AND user_id = ?", id, user.ID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		FailInternal(c, err)
		return
	}
	delta := 1
	if err == nil {
		delta = -1
	}

	res := tx.Model(&models.Comment{}).Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		tx.Rollback()
		FailInternal(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		Fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	if delta == -1 {
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			FailInternal(c, err)
			return
		}
	} else {
		if err := tx.Create(&models.CommentUpvote{CommentID: id, UserID: user.ID}).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Fail(c, http.StatusConflict, "Already upvoted")
				return
			}
			FailInternal(c, err)
			return
		}
	}

	var points int
	if err := tx.Model(&models.Comment{}).Select("points").Where("id = ?", id).Scan(&points).Error; err != nil {
		tx.Rollback()
		FailInternal(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		FailInternal(c, err)
		return
	}

	commentUpvotes := []models.CommentUpvoteRef{}
	if delta > 0 {
		commentUpvotes = append(commentUpvotes, models.CommentUpvoteRef{UserID: user.ID})
	}

	SuccessData(c, http.StatusOK, "Comment updated", gin.H{
		"count":          points,
		"commentUpvotes": commentUpvotes,
	})
}
