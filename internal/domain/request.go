package domain

import "time"

// Request is a user's post describing a wanted item that does not
// exist yet. Items created later may reference the request they
// fulfill; those items are attached as the request's matched items.
type Request struct {
	// ID is the unique identifier for the request (auto-generated).
	ID int64 `json:"id"`

	// Description is what the requestor is looking for.
	Description string `json:"description"`

	// Requestor is the user who posted the request, materialized for
	// responses.
	Requestor *User `json:"requestor"`

	// Created is when the request was posted.
	Created time.Time `json:"created"`

	// Items is the derived list of items whose RequestID equals this
	// request's ID. Populated by the service, never stored.
	Items []*Item `json:"items"`
}

// RequestorID returns the id of the posting user.
func (r *Request) RequestorID() int64 {
	if r.Requestor == nil {
		return 0
	}
	return r.Requestor.ID
}
