package model

import "time"

// Snippet is a leaf of the hierarchy: a saved note with an optional image
// reference and free-form content.
//
// SubtopicID is optional. When a subtopic is deleted directly its snippets
// survive with SubtopicID cleared; when a whole topic is deleted, the
// snippets under its subtopics are deleted with it.
type Snippet struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Image      string    `json:"image,omitempty"`
	Content    string    `json:"content,omitempty"`
	SubtopicID string    `json:"subtopicId,omitempty"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
