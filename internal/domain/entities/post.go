package entities

import "time"

// MaxPostTextBytes is the largest post body the store accepts (MySQL TEXT)
const MaxPostTextBytes = 65535

// Post is a short text owned by a single user
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
