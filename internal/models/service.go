package models

import "time"

// Service is a catalog item a provider offers.
type Service struct {
	ID           int         `json:"id"`
	ProviderID   int         `json:"provider_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	Duration     int         `json:"duration"`
	CategoryID   int         `json:"category_id"`
	CategoryName string      `json:"category_name,omitempty"`
	ImageURL     string      `json:"image_url"`
	IsActive     bool        `json:"is_active"`
	Provider     BookingUser `json:"provider,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}

type ServiceCategory struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}
