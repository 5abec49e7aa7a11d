package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	TokenHash string    `json:"-"` // Not exposed in API responses
}

// UserStats is the per-user summary returned by the stats endpoint.
type UserStats struct {
	TotalViewed int   `json:"total_viewed"`
	TotalLiked  int   `json:"total_liked"`
	User        *User `json:"user"`
}
