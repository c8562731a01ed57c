// Package domain contains the core business entities for ShareIt.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the item-sharing system.
package domain

// User represents a registered user in the system.
// Users list items for sharing and book items listed by other users.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique email address for the user.
	Email string `json:"email"`
}

// NewUser creates a new User.
func NewUser(name, email string) *User {
	return &User{
		Name:  name,
		Email: email,
	}
}
