package clients

import "time"

// Client is a customer of the agency whose policies are tracked.
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     *string
	Phone     *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
