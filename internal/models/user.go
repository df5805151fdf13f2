package models

// User owns posts, comments and upvotes by id reference, never by containment.
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Username     string `gorm:"uniqueIndex;size:31;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// Author is the public slice of a User embedded in post and comment responses.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
