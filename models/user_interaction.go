package models

import "time"

// UserInteraction is the single evolving record of one user's liked/viewed
// state for one article. There is at most one per (UserID, ArticleID).
type UserInteraction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ArticleID string    `json:"article_id"`
	Liked     bool      `json:"liked"`
	Viewed    bool      `json:"viewed"`
	ViewedAt  time.Time `json:"viewed_at"`
	CreatedAt time.Time `json:"created_at"`
}
