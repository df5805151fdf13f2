package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"kindling/internal/db"
	"kindling/internal/middleware"
	"kindling/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupRouter builds the real route table on a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// One connection so every query sees the same :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	db.DB = conn

	r := gin.New()
	r.Use(middleware.LoadIdentity())
	router.RegisterRoutes(r)
	return r
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path string, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	d, ok := decode(t, w)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", w.Body.String())
	}
	return d
}

func items(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	d, ok := decode(t, w)["data"].([]interface{})
	if !ok {
		t.Fatalf("response has no data array: %s", w.Body.String())
	}
	return d
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatalf("no session cookie set, headers: %v", w.Header())
	return ""
}

// signup registers a user and returns their session cookie.
func signup(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := postForm(t, r, "/api/auth/signup", url.Values{
		"username": {username},
		"password": {password},
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: status %d body %s", username, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

// createPost submits a text post and returns its id.
func createPost(t *testing.T, r *gin.Engine, cookie, title string) uint {
	t.Helper()
	w := postForm(t, r, "/api/post", url.Values{
		"title":   {title},
		"content": {"some content for " + title},
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: status %d body %s", w.Code, w.Body.String())
	}
	return uint(data(t, w)["postId"].(float64))
}

func createComment(t *testing.T, r *gin.Engine, cookie string, postID uint, content string) uint {
	t.Helper()
	w := postForm(t, r, "/api/post/"+itoa(postID)+"/comment", url.Values{"content": {content}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create comment: status %d body %s", w.Code, w.Body.String())
	}
	return uint(data(t, w)["id"].(float64))
}

func createReply(t *testing.T, r *gin.Engine, cookie string, parentID uint, content string) uint {
	t.Helper()
	w := postForm(t, r, "/api/comment/"+itoa(parentID), url.Values{"content": {content}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create reply: status %d body %s", w.Code, w.Body.String())
	}
	return uint(data(t, w)["id"].(float64))
}

func itoa(n uint) string {
	return strconv.Itoa(int(n))
}
