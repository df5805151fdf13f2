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

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.MustIdentity(c).User

	title := strings.TrimSpace(c.PostForm("title"))
	url := strings.TrimSpace(c.PostForm("url"))
	content := c.PostForm("content")

	if len(title) < 3 {
		FailForm(c, "Title must be at least 3 characters.")
		return
	}
	if url != "" && !utils.IsValidURL(url) {
		FailForm(c, "URL must be a valid url")
		return
	}
	if url == "" && strings.TrimSpace(content) == "" {
		FailForm(c, "Either URL or Content must be provided")
		return
	}

	post := models.Post{
		UserID:  user.ID,
		Title:   title,
		URL:     url,
		Content: utils.SanitizeContent(content),
	}
	if err := db.DB.Create(&post).Error; err != nil {
		FailInternal(c, err)
		return
	}

	SuccessData(c, http.StatusCreated, "Post created", gin.H{"postId": post.ID})
}

func (h *PostHandler) List(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	author := c.Query("author")
	site := c.Query("site")
	ident := middleware.CurrentIdentity(c)

	// Count and page share one predicate so totalPages stays consistent
	// with the rows actually returned.
	filter := func(q *gorm.DB) *gorm.DB {
		if author != "" {
			q = q.Where("user_id = ?", author)
		}
		if site != "" {
			q = q.Where("url = ?", site)
		}
		return q
	}

	var total int64
	if err := db.DB.Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		FailInternal(c, err)
		return
	}

	var posts []models.Post
	if err := db.DB.Scopes(filter).
		Preload("User").
		Order(params.OrderClause()).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&posts).Error; err != nil {
		FailInternal(c, err)
		return
	}

	fillPostViewerData(posts, ident)

	SuccessPage(c, "Posts fetched", posts, params.Page, totalPages(total, params.Limit))
}

func (h *PostHandler) Get(c *gin.Context) {
	id := uint(utils.StringToInt(c.Param("id")))
	ident := middleware.CurrentIdentity(c)

	var post models.Post
	if err := db.DB.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusNotFound, "Post not found")
			return
		}
		FailInternal(c, err)
		return
	}

	posts := []models.Post{post}
	fillPostViewerData(posts, ident)

	SuccessData(c, http.StatusOK, "Post fetched", posts[0])
}

// CreateComment creates a top-level comment. The post's comment counter and
// the insert commit in one transaction; the zero-row update doubles as the
// existence check.
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := middleware.MustIdentity(c).User
	id := uint(utils.StringToInt(c.Param("id")))

	content := c.PostForm("content")
	if len(strings.TrimSpace(content)) < 3 {
		FailForm(c, "Comment must be at least 3 characters")
		return
	}

	comment := models.Comment{
		UserID:  user.ID,
		PostID:  id,
		Content: utils.SanitizeContent(content),
	}

	tx := db.DB.Begin()

	res := tx.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
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

	if err := tx.Create(&comment).Error; err != nil {
		tx.Rollback()
		FailInternal(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		FailInternal(c, err)
		return
	}

	comment.Author = models.Author{ID: user.ID, Username: user.Username}
	comment.CommentUpvotes = []models.CommentUpvoteRef{}
	comment.ChildComments = []models.Comment{}

	SuccessData(c, http.StatusOK, "Comment created", comment)
}

// ListComments returns a page of the post's top-level comments. With
// includeChildren each comment carries a preview of up to 2 direct replies
// in the same order, never the full subtree.
func (h *PostHandler) ListComments(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	includeChildren := c.Query("includeChildren") == "true"
	id := uint(utils.StringToInt(c.Param("id")))
	ident := middleware.CurrentIdentity(c)

	var post models.Post
	if err := db.DB.Select("id").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusNotFound, "Post not found")
			return
		}
		FailInternal(c, err)
		return
	}

	filter := func(q *gorm.DB) *gorm.DB {
		return q.Where("post_id = ? AND parent_comment_id IS NULL", id)
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

	if includeChildren {
		for i := range comments {
			var children []models.Comment
			if err := db.DB.Preload("User").
				Where("parent_comment_id = ?", comments[i].ID).
				Order(params.OrderClause()).
				Limit(2).
				Find(&children).Error; err != nil {
				FailInternal(c, err)
				return
			}
			fillCommentViewerData(children, ident)
			comments[i].ChildComments = children
		}
	}

	SuccessPage(c, "Comments fetched", comments, params.Page, totalPages(total, params.Limit))
}

// fillPostViewerData attaches author info and, for an authenticated viewer,
// the per-viewer upvote flag. Anonymous viewers never see isUpvoted=true.
func fillPostViewerData(posts []models.Post, ident *middleware.Identity) {
	for i := range posts {
		posts[i].Author = models.Author{ID: posts[i].UserID, Username: posts[i].User.Username}
	}

	if ident == nil || len(posts) == 0 {
		return
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var upvotes []models.PostUpvote
	db.DB.Where("user_id = ? AND post_id IN ?", ident.User.ID, ids).Find(&upvotes)

	upvoted := make(map[uint]bool, len(upvotes))
	for _, u := range upvotes {
		upvoted[u.PostID] = true
	}
	for i := range posts {
		posts[i].IsUpvoted = upvoted[posts[i].ID]
	}
}
