package domain

// Item represents a thing a user has listed for sharing.
type Item struct {
	// ID is the unique identifier for the item (auto-generated).
	ID int64 `json:"id"`

	// Name is the short display name of the item.
	Name string `json:"name"`

	// Description is the free-form description of the item.
	Description string `json:"description"`

	// Available indicates whether the item can currently be booked.
	// The owner toggles this; bookings never change it.
	Available bool `json:"available"`

	// OwnerID references the user who listed the item.
	// Must reference an existing user at creation time.
	OwnerID int64 `json:"ownerId"`

	// RequestID optionally references the request this item fulfills.
	RequestID *int64 `json:"requestId,omitempty"`
}
