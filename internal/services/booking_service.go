package services

import (
	"context"
	"regexp"

	"bellaBack/internal/fsm"
	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
)

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// BookingEventPublisher pushes booking events to live dashboard subscribers.
type BookingEventPublisher interface {
	Publish(event models.BookingEvent)
}

type BookingService struct {
	BookingRepo *repositories.BookingRepository
	// StrictTransitions gates the status FSM. When false the legacy
	// behavior applies: any known status value is written unconditionally.
	StrictTransitions bool
	Events            BookingEventPublisher
	Notifications     *NotificationService
}

func validateDateTime(date, bookingTime string) error {
	if !dateRegex.MatchString(date) {
		return models.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	if !timeRegex.MatchString(bookingTime) {
		return models.NewValidationError("time", "time must be HH:MM")
	}
	return nil
}

func (s *BookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.Booking, error) {
	if err := validateDateTime(req.Date, req.Time); err != nil {
		return models.Booking{}, err
	}
	if req.Duration <= 0 {
		return models.Booking{}, models.NewValidationError("duration", "duration must be positive")
	}

	booking := models.Booking{
		ClientID:    req.ClientID,
		ProviderID:  req.ProviderID,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Price:       req.Price,
		Status:      fsm.StatusPending,
		ClientNotes: req.ClientNotes,
	}

	created, err := s.BookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		return models.Booking{}, err
	}

	s.publish(ctx, models.BookingEvent{
		Type:       "booking_created",
		BookingID:  created.ID,
		ProviderID: created.ProviderID,
		ClientID:   created.ClientID,
		Status:     created.Status,
	})
	return created, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	return s.BookingRepo.GetBookingByID(ctx, id)
}

func (s *BookingService) GetProviderBookings(ctx context.Context, providerID int) ([]models.Booking, error) {
	return s.BookingRepo.GetProviderBookings(ctx, providerID)
}

func (s *BookingService) GetClientBookings(ctx context.Context, clientID int) ([]models.Booking, error) {
	return s.BookingRepo.GetClientBookings(ctx, clientID)
}

// UpdateBookingStatus moves a booking through its lifecycle. With strict
// transitions on, only the FSM's allowed pairs pass; the write itself is
// optimistic so a concurrent transition is reported rather than overwritten.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int, newStatus string, reason *string) (models.Booking, error) {
	if !fsm.IsValidStatus(newStatus) {
		return models.Booking{}, models.NewValidationError("status", "unknown booking status")
	}

	booking, err := s.BookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}

	if booking.Status == newStatus {
		return booking, nil
	}

	if s.StrictTransitions && !fsm.CanTransition(booking.Status, newStatus) {
		return models.Booking{}, models.ErrInvalidStatusTransition
	}

	if err := s.BookingRepo.UpdateStatus(ctx, id, booking.Status, newStatus, reason); err != nil {
		return models.Booking{}, err
	}

	updated, err := s.BookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}

	s.publish(ctx, models.BookingEvent{
		Type:       "booking_status_changed",
		BookingID:  updated.ID,
		ProviderID: updated.ProviderID,
		ClientID:   updated.ClientID,
		Status:     updated.Status,
		Reason:     reason,
	})
	return updated, nil
}

func (s *BookingService) UpdateBookingDateTime(ctx context.Context, id int, date, bookingTime string) (models.Booking, error) {
	if err := validateDateTime(date, bookingTime); err != nil {
		return models.Booking{}, err
	}

	if err := s.BookingRepo.UpdateDateTime(ctx, id, date, bookingTime); err != nil {
		return models.Booking{}, err
	}
	return s.BookingRepo.GetBookingByID(ctx, id)
}

func (s *BookingService) publish(ctx context.Context, event models.BookingEvent) {
	if s.Events != nil {
		s.Events.Publish(event)
	}
	if s.Notifications != nil {
		s.Notifications.NotifyBookingEvent(ctx, event)
	}
}
