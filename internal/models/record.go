package models

import "time"

// Meta holds the system-managed fields shared by every persisted record.
// ID is assigned at creation and never changes; CreatedAt is set once;
// UpdatedAt is refreshed on every successful mutation.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
