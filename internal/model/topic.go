package model

import "time"

// Topic is the top level of the Topics → Subtopics → Snippets hierarchy.
// Every topic belongs to exactly one user; all queries are scoped to UserID.
type Topic struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
