package model

import "time"

// Subtopic sits between a Topic and its Snippets.
//
// TopicID is optional — a subtopic may be unfiled. When present it must
// reference a topic owned by the same user (enforced at the service layer,
// before any write). An empty TopicID serializes as an absent field.
type Subtopic struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TopicID   string    `json:"topicId,omitempty"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
