package handlers

import (
	"errors"
	"net/http"
	"strings"

	"kindling/internal/db"
	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// CreateReply inserts a reply under an existing comment. The parent's and
// the owning post's comment counters move with the insert in one
// transaction; partial application must never be observable.
func (h *CommentHandler) CreateReply(c *gin.Context) {
	user := middleware.MustIdentity(c).User
	id := uint(utils.StringToInt(c.Param("id")))

	content := c.PostForm("content")
	if len(strings.TrimSpace(content)) < 3 {
		FailForm(c, "Comment must be at least 3 characters")
		return
	}

	tx := db.DB.Begin()

	var parent models.Comment
	if err := tx.Select("id", "post_id", "depth").First(&parent, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		FailInternal(c, err)
		return
	}

	parentRes := tx.Model(&models.Comment{}).Where("id = ?", parent.ID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
	if parentRes.Error != nil {
		tx.Rollback()
		FailInternal(c, parentRes.Error)
		return
	}

	postRes := tx.Model(&models.Post{}).Where("id = ?", parent.PostID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
	if postRes.Error != nil {
		tx.Rollback()
		FailInternal(c, postRes.Error)
		return
	}

	if parentRes.RowsAffected == 0 || postRes.RowsAffected == 0 {
		tx.Rollback()
		Fail(c, http.StatusNotFound, "Error creating comment")
		return
	}

	reply := models.Comment{
		UserID:          user.ID,
		PostID:          parent.PostID,
		ParentCommentID: &parent.ID,
		Depth:           parent.Depth + 1,
		Content:         utils.SanitizeContent(content),
	}
	if err := tx.Create(&reply).Error; err != nil {
		tx.Rollback()
		FailInternal(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		FailInternal(c, err)
		return
	}

	reply.Author = models.Author{ID: user.ID, Username: user.Username}
	reply.CommentUpvotes = []models.CommentUpvoteRef{}
	reply.ChildComments = []models.Comment{}

	SuccessData(c, http.StatusOK, "Comment created", reply)
}

// ListReplies returns a page of direct replies to a comment. An unknown
// parent id yields an empty page rather than 404.
func (h *CommentHandler) ListReplies(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	id := uint(utils.StringToInt(c.Param("id")))
	ident := middleware.CurrentIdentity(c)

	filter := func(q *gorm.DB) *gorm.DB {
		return q.Where("parent_comment_id = ?", id)
	}

	var total int64
	if err := db.DB.Model(&models.Comment{}).Scopes(filter).Count(&total).Error; err != nil {
		FailInternal(c, err)
		return
	}

	var comments []models.Comment
	if err := db.DB.Scopes(filter).
		Preload("User").
		Order(params.OrderClause()).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&comments).Error; err != nil {
		FailInternal(c, err)
		return
	}

	fillCommentViewerData(comments, ident)

	SuccessPage(c, "Comments fetched", comments, params.Page, totalPages(total, params.Limit))
}

// fillCommentViewerData attaches author info and the viewer's own upvote
// marker (single-row lookup per comment, batched over the page).
func fillCommentViewerData(comments []models.Comment, ident *middleware.Identity) {
	for i := range comments {
		comments[i].Author = models.Author{ID: comments[i].UserID, Username: comments[i].User.Username}
		comments[i].CommentUpvotes = []models.CommentUpvoteRef{}
		if comments[i].ChildComments == nil {
			comments[i].ChildComments = []models.Comment{}
		}
	}

	if ident == nil || len(comments) == 0 {
		return
	}

	ids := make([]uint, len(comments))
	for i, com := range comments {
		ids[i] = com.ID
	}

	var upvotes []models.CommentUpvote
	db.DB.Where("user_id = ? AND comment_id IN ?", ident.User.ID, ids).Find(&upvotes)

	upvoted := make(map[uint]bool, len(upvotes))
	for _, u := range upvotes {
		upvoted[u.CommentID] = true
	}
	for i := range comments {
		if upvoted[comments[i].ID] {
			comments[i].CommentUpvotes = []models.CommentUpvoteRef{{UserID: ident.User.ID}}
		}
	}
}
