package handlers

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response envelopes. Every endpoint answers either
// {success:true, message, data?} (plus pagination for list endpoints) or
// {success:false, error, isFormError?}.

func Success(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": true, "message": message})
}

func SuccessData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{"success": true, "message": message, "data": data})
}

func SuccessPage(c *gin.Context, message string, data interface{}, page, totalPages int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
		"pagination": gin.H{
			"page":       page,
			"totalPages": totalPages,
		},
	})
}

func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// FailForm is for validation errors tied to a specific form field.
func FailForm(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message, "isFormError": true})
}

// FailInternal redacts the underlying error outside development.
func FailInternal(c *gin.Context, err error) {
	if os.Getenv("ENV") == "production" {
		Fail(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	Fail(c, http.StatusInternalServerError, err.Error())
}

// listParams are the shared pagination/sort query parameters.
type listParams struct {
	Limit   int
	Page    int
	SortBy  string // points | recent
	OrderBy string // asc | desc
}

func parseListParams(c *gin.Context) (listParams, error) {
	p := listParams{Limit: 10, Page: 1, SortBy: "recent", OrderBy: "desc"}

	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, errors.New("limit must be a positive number")
		}
		p.Limit = n
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, errors.New("page must be a positive number")
		}
		p.Page = n
	}
	if v := c.Query("sortBy"); v != "" {
		if v != "points" && v != "recent" {
			return p, errors.New("sortBy must be one of points, recent")
		}
		p.SortBy = v
	}
	if v := c.Query("orderBy"); v != "" {
		if v != "asc" && v != "desc" {
			return p, errors.New("orderBy must be one of asc, desc")
		}
		p.OrderBy = v
	}

	return p, nil
}

func (p listParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause maps sortBy/orderBy onto the sort column.
func (p listParams) OrderClause() string {
	col := "created_at"
	if p.SortBy == "points" {
		col = "points"
	}
	if p.OrderBy == "asc" {
		return col + " asc"
	}
	return col + " desc"
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
