package models

import "time"

// Placeholder is the disposable optimistic feed entry rendered while a
// submission is pending. It shadows the outbox entry's identity, carries no
// authority, and is discarded outright once the confirmed workout arrives or
// the submission is abandoned.
type Placeholder struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	IsPending       bool      `json:"is_pending"`
	AuthorName      string    `json:"author_name,omitempty"`
	AuthorAvatarURL string    `json:"author_avatar_url,omitempty"`
}

// DisplayProfile is the best-effort profile lookup result used to decorate a
// placeholder. A failed lookup just leaves these fields blank.
type DisplayProfile struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
