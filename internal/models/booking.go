package models

import "time"

// BookingUser carries the counterpart profile fields a booking list needs for
// display (the client for a provider's dashboard, the provider for a client's
// history).
type BookingUser struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

type Booking struct {
	ID                 int         `json:"id"`
	ClientID           int         `json:"client_id"`
	ProviderID         int         `json:"provider_id"`
	ServiceID          int         `json:"service_id"`
	ServiceName        string      `json:"service_name,omitempty"`
	Date               string      `json:"date"`
	Time               string      `json:"time"`
	Duration           int         `json:"duration"`
	Price              float64     `json:"price"`
	Status             string      `json:"status"`
	ClientNotes        string      `json:"client_notes,omitempty"`
	CancellationReason *string     `json:"cancellation_reason,omitempty"`
	Client             BookingUser `json:"client,omitempty"`
	Provider           BookingUser `json:"provider,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

type CreateBookingRequest struct {
	ClientID    int     `json:"client_id"`
	ProviderID  int     `json:"provider_id"`
	ServiceID   int     `json:"service_id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	ClientNotes string  `json:"client_notes"`
}

type UpdateBookingStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

type UpdateBookingDateTimeRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingEvent is pushed to provider dashboard websocket subscribers when a
// booking is created or transitions.
type BookingEvent struct {
	Type       string  `json:"type"`
	BookingID  int     `json:"booking_id"`
	ProviderID int     `json:"provider_id"`
	ClientID   int     `json:"client_id"`
	Status     string  `json:"status"`
	Reason     *string `json:"reason,omitempty"`
}
