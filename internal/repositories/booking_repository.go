package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bellaBack/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = &booking.CreatedAt

	query := `
        INSERT INTO bookings (client_id, provider_id, service_id, date, time, duration, price, status, client_notes, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	result, err := r.DB.ExecContext(ctx, query,
		booking.ClientID, booking.ProviderID, booking.ServiceID, booking.Date, booking.Time,
		booking.Duration, booking.Price, booking.Status, booking.ClientNotes,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	booking.ID = int(id)
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	var booking models.Booking
	query := `
        SELECT id, client_id, provider_id, service_id, date, time, duration, price, status, client_notes, cancellation_reason, created_at, updated_at
        FROM bookings
        WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.ClientID, &booking.ProviderID, &booking.ServiceID,
		&booking.Date, &booking.Time, &booking.Duration, &booking.Price, &booking.Status,
		&booking.ClientNotes, &booking.CancellationReason, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// GetProviderBookings lists a provider's bookings joined with the client
// profile fields the dashboard displays.
func (r *BookingRepository) GetProviderBookings(ctx context.Context, providerID int) ([]models.Booking, error) {
	query := `
        SELECT b.id, b.client_id, b.provider_id, b.service_id, s.name, b.date, b.time, b.duration, b.price,
               b.status, b.client_notes, b.cancellation_reason,
               u.id, u.first_name, u.last_name, u.phone, u.avatar_url,
               b.created_at, b.updated_at
        FROM bookings b
        JOIN users u ON b.client_id = u.id
        LEFT JOIN services s ON b.service_id = s.id
        WHERE b.provider_id = ?
        ORDER BY b.date DESC, b.time DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		var serviceName sql.NullString
		err := rows.Scan(
			&booking.ID, &booking.ClientID, &booking.ProviderID, &booking.ServiceID, &serviceName,
			&booking.Date, &booking.Time, &booking.Duration, &booking.Price, &booking.Status,
			&booking.ClientNotes, &booking.CancellationReason,
			&booking.Client.ID, &booking.Client.FirstName, &booking.Client.LastName,
			&booking.Client.Phone, &booking.Client.AvatarURL,
			&booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		booking.ServiceName = serviceName.String
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// GetClientBookings lists a client's bookings joined with provider profile
// fields.
func (r *BookingRepository) GetClientBookings(ctx context.Context, clientID int) ([]models.Booking, error) {
	query := `
        SELECT b.id, b.client_id, b.provider_id, b.service_id, s.name, b.date, b.time, b.duration, b.price,
               b.status, b.client_notes, b.cancellation_reason,
               u.id, u.first_name, u.last_name, u.avatar_url,
               b.created_at, b.updated_at
        FROM bookings b
        JOIN users u ON b.provider_id = u.id
        LEFT JOIN services s ON b.service_id = s.id
        WHERE b.client_id = ?
        ORDER BY b.date DESC, b.time DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		var serviceName sql.NullString
		err := rows.Scan(
			&booking.ID, &booking.ClientID, &booking.ProviderID, &booking.ServiceID, &serviceName,
			&booking.Date, &booking.Time, &booking.Duration, &booking.Price, &booking.Status,
			&booking.ClientNotes, &booking.CancellationReason,
			&booking.Provider.ID, &booking.Provider.FirstName, &booking.Provider.LastName,
			&booking.Provider.AvatarURL,
			&booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		booking.ServiceName = serviceName.String
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// UpdateStatus writes the new status optimistically: the write only lands when
// the row still carries fromStatus, so a concurrent transition surfaces as
// ErrBookingConflict instead of silently overwriting.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int, fromStatus, toStatus string, reason *string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = ?, cancellation_reason = ?, updated_at = ? WHERE id = ? AND status = ?`,
		toStatus, reason, time.Now(), id, fromStatus,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrBookingConflict
	}
	return nil
}

// UpdateDateTime writes both columns in a single statement so the caller sees
// the reschedule as one round trip.
func (r *BookingRepository) UpdateDateTime(ctx context.Context, id int, date, bookingTime string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET date = ?, time = ?, updated_at = ? WHERE id = ?`,
		date, bookingTime, time.Now(), id,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}
