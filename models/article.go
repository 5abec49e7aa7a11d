package models

import "time"

// Article is a saved article. WikiID is the identifier in the source system
// and is the natural key used for deduplication.
type Article struct {
	ID        string    `json:"id"`
	WikiID    string    `json:"wiki_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	URL       string    `json:"url"`
	Thumbnail *string   `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is an article as seen in a user's viewing history. ViewedAt
// comes from the user's interaction row, not from the article.
type HistoryEntry struct {
	Article
	ViewedAt time.Time `json:"viewed_at"`
}
