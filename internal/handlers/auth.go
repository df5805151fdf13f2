package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"kindling/internal/db"
	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// validateCredentials returns a form error message, or "" when valid.
func validateCredentials(username, password string) string {
	if len(username) < 3 || len(username) > 31 {
		return "Username must be between 3 and 31 characters"
	}
	if !usernameRe.MatchString(username) {
		return "Username can only contain letters, numbers and underscores"
	}
	if len(password) < 3 || len(password) > 255 {
		return "Password must be between 3 and 255 characters"
	}
	return ""
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if msg := validateCredentials(username, password); msg != "" {
		FailForm(c, msg)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		FailInternal(c, err)
		return
	}

	user := models.User{
		ID:           utils.NewUserID(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Fail(c, http.StatusConflict, "Username already used")
			return
		}
		Fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		FailInternal(c, err)
		return
	}

	Success(c, http.StatusCreated, "User Created")
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if msg := validateCredentials(username, password); msg != "" {
		FailForm(c, msg)
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Fail(c, http.StatusUnauthorized, "Incorrect username")
		return
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		Fail(c, http.StatusUnauthorized, "Incorrect password")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		FailInternal(c, err)
		return
	}

	Success(c, http.StatusOK, "Logged In")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	if ident == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	db.DB.Delete(&models.Session{}, "id = ?", ident.Session.ID)
	middleware.ClearSessionCookie(c)

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user := middleware.MustIdentity(c).User

	SuccessData(c, http.StatusOK, "User fetched", gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// startSession issues a new session row and cookie. The cookie header is the
// only channel session state travels back on; no body field carries it.
func (h *AuthHandler) startSession(c *gin.Context, userID string) error {
	token, err := utils.NewSessionToken()
	if err != nil {
		return err
	}

	session := models.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(middleware.SessionTTL),
	}
	if err := db.DB.Create(&session).Error; err != nil {
		return err
	}

	middleware.SetSessionCookie(c, token)
	return nil
}
