package domain

import "time"

// Comment is post-booking feedback left on an item. A user may only
// comment on an item after a booking of theirs has ended.
type Comment struct {
	// ID is the unique identifier for the comment (auto-generated).
	ID int64 `json:"id"`

	// Text is the comment body.
	Text string `json:"text"`

	// ItemID references the commented item.
	ItemID int64 `json:"itemId"`

	// AuthorID references the commenting user.
	AuthorID int64 `json:"authorId"`

	// AuthorName is the display name of the author, materialized for
	// responses.
	AuthorName string `json:"authorName"`

	// Created is when the comment was posted.
	Created time.Time `json:"created"`
}
