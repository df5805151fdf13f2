package handlers_test

import (
	"net/http"
	"testing"

	"kindling/internal/db"
	"kindling/internal/models"
)

func TestTogglePostUpvote(t *testing.T) {
	r := setupRouter(t)
	cookie := signup(t, r, "alice", "secret1")
	id := createPost(t, r, cookie, "a post")

	w := postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	d := data(t, w)
	if d["count"].(float64) != 1 || d["isUpvoted"] != true {
		t.Errorf("first toggle: expected count=1 isUpvoted=true, got %v", d)
	}

	w = postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, cookie)
	d = data(t, w)
	if d["count"].(float64) != 0 || d["isUpvoted"] != false {
		t.Errorf("second toggle: expected count=0 isUpvoted=false, got %v", d)
	}

	var rows int64
	db.DB.Model(&models.PostUpvote{}).Count(&rows)
	if rows != 0 {
		t.Errorf("even number of toggles must leave no upvote rows, got %d", rows)
	}

	// Odd number of toggles leaves exactly one row and +1 points.
	w = postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, cookie)
	d = data(t, w)
	if d["count"].(float64) != 1 || d["isUpvoted"] != true {
		t.Errorf("third toggle: expected count=1 isUpvoted=true, got %v", d)
	}
	db.DB.Model(&models.PostUpvote{}).Count(&rows)
	if rows != 1 {
		t.Errorf("expected exactly one upvote row, got %d", rows)
	}
}

func TestTogglePostUpvoteTwoVoters(t *testing.T) {
	r := setupRouter(t)
	alice := signup(t, r, "alice", "secret1")
	bob := signup(t, r, "bob", "secret2")
	id := createPost(t, r, alice, "a post")

	postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, alice)
	w := postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, bob)
	if got := data(t, w)["count"].(float64); got != 2 {
		t.Errorf("expected 2 points after two voters, got %v", got)
	}
}

func TestTogglePostUpvoteNotFound(t *testing.T) {
	r := setupRouter(t)
	cookie := signup(t, r, "alice", "secret1")

	w := postForm(t, r, "/api/post/999/upvote", nil, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTogglePostUpvoteRequiresAuth(t *testing.T) {
	r := setupRouter(t)
	cookie := signup(t, r, "alice", "secret1")
	id := createPost(t, r, cookie, "a post")

	w := postForm(t, r, "/api/post/"+itoa(id)+"/upvote", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestToggleCommentUpvote(t *testing.T) {
	r := setupRouter(t)
	cookie := signup(t, r, "alice", "secret1")
	postID := createPost(t, r, cookie, "a post")
	commentID := createComment(t, r, cookie, postID, "first comment")

	w := postForm(t, r, "/api/comment/"+itoa(commentID)+"/upvote", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	d := data(t, w)
	if d["count"].(float64) != 1 {
		t.Errorf("expected count=1, got %v", d["count"])
	}
	refs := d["commentUpvotes"].([]interface{})
	if len(refs) != 1 {
		t.Fatalf("expected the voter's upvote ref, got %v", refs)
	}

	w = postForm(t, r, "/api/comment/"+itoa(commentID)+"/upvote", nil, cookie)
	d = data(t, w)
	if d["count"].(float64) != 0 {
		t.Errorf("expected count back to 0, got %v", d["count"])
	}
	if len(d["commentUpvotes"].([]interface{})) != 0 {
		t.Errorf("expected no upvote refs after un-upvote")
	}
}

func TestToggleCommentUpvoteNotFound(t *testing.T) {
	r := setupRouter(t)
	cookie := signup(t, r, "alice", "secret1")

	w := postForm(t, r, "/api/comment/999/upvote", nil, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decode(t, w)["error"] != "Comment not found" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
