package models

import "time"

// Favorite links a client to a provider they starred, optionally scoped to a
// category.
type Favorite struct {
	ID         int         `json:"id"`
	UserID     int         `json:"user_id"`
	ProviderID int         `json:"provider_id"`
	Category   string      `json:"category,omitempty"`
	Provider   BookingUser `json:"provider,omitempty"`
	City       string      `json:"city,omitempty"`
	IsPremium  bool        `json:"is_premium,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
