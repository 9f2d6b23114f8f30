package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
)

type eventRecorder struct {
	events []models.BookingEvent
}

func (r *eventRecorder) Publish(event models.BookingEvent) {
	r.events = append(r.events, event)
}

var bookingColumns = []string{
	"id", "client_id", "provider_id", "service_id", "date", "time",
	"duration", "price", "status", "client_notes", "cancellation_reason",
	"created_at", "updated_at",
}

func bookingRow(id int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumns).
		AddRow(id, 10, 20, 30, "2026-09-01", "14:00", 60, 45.0, status, "", nil, now, now)
}

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, *eventRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	recorder := &eventRecorder{}
	svc := &BookingService{
		BookingRepo:       &repositories.BookingRepository{DB: db},
		StrictTransitions: true,
		Events:            recorder,
	}
	return svc, mock, recorder
}

func TestUpdateBookingStatusLifecycle(t *testing.T) {
	svc, mock, recorder := newBookingService(t)

	// pending -> confirmed
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "pending"))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("confirmed", nil, sqlmock.AnyArg(), 1, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "confirmed"))

	booking, err := svc.UpdateBookingStatus(context.Background(), 1, "confirmed", nil)
	if err != nil {
		t.Fatalf("pending -> confirmed: %v", err)
	}
	if booking.Status != "confirmed" {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}

	// confirmed -> completed
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "confirmed"))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("completed", nil, sqlmock.AnyArg(), 1, "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "completed"))

	booking, err = svc.UpdateBookingStatus(context.Background(), 1, "completed", nil)
	if err != nil {
		t.Fatalf("confirmed -> completed: %v", err)
	}
	if booking.Status != "completed" {
		t.Errorf("status = %q, want completed", booking.Status)
	}

	if len(recorder.events) != 2 {
		t.Errorf("published %d events, want 2", len(recorder.events))
	}
	for _, event := range recorder.events {
		if event.Type != "booking_status_changed" {
			t.Errorf("event type = %q, want booking_status_changed", event.Type)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingStatusRejectsIllegalTransition(t *testing.T) {
	svc, mock, recorder := newBookingService(t)

	// A completed booking cannot go back to pending; no write is attempted.
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "completed"))

	_, err := svc.UpdateBookingStatus(context.Background(), 1, "pending", nil)
	if !errors.Is(err, models.ErrInvalidStatusTransition) {
		t.Fatalf("err = %v, want ErrInvalidStatusTransition", err)
	}
	if len(recorder.events) != 0 {
		t.Errorf("published %d events, want 0", len(recorder.events))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingStatusSameStatusIsNoOp(t *testing.T) {
	svc, mock, recorder := newBookingService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "confirmed"))

	booking, err := svc.UpdateBookingStatus(context.Background(), 1, "confirmed", nil)
	if err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if booking.Status != "confirmed" {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if len(recorder.events) != 0 {
		t.Errorf("published %d events, want 0", len(recorder.events))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingStatusConcurrentConflict(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).WillReturnRows(bookingRow(1, "pending"))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("confirmed", nil, sqlmock.AnyArg(), 1, "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.UpdateBookingStatus(context.Background(), 1, "confirmed", nil)
	if !errors.Is(err, models.ErrBookingConflict) {
		t.Fatalf("err = %v, want ErrBookingConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingStatusUnknownStatus(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	_, err := svc.UpdateBookingStatus(context.Background(), 1, "archived", nil)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued for an unknown status: %v", err)
	}
}

func TestUpdateBookingDateTimeWritesBothColumns(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectExec(`UPDATE bookings SET date = \?, time = \?, updated_at = \? WHERE id = \?`).
		WithArgs("2026-09-03", "16:30", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(1, 10, 20, 30, "2026-09-03", "16:30", 60, 45.0, "confirmed", "", nil, now, now))

	booking, err := svc.UpdateBookingDateTime(context.Background(), 1, "2026-09-03", "16:30")
	if err != nil {
		t.Fatalf("UpdateBookingDateTime: %v", err)
	}
	if booking.Date != "2026-09-03" || booking.Time != "16:30" {
		t.Errorf("rescheduled to %s %s, want 2026-09-03 16:30", booking.Date, booking.Time)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingDateTimeRejectsBadFormat(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	cases := []struct{ date, time string }{
		{"03-09-2026", "16:30"},
		{"2026-09-03", "4:30pm"},
	}
	for _, c := range cases {
		_, err := svc.UpdateBookingDateTime(context.Background(), 1, c.date, c.time)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("UpdateBookingDateTime(%q, %q) err = %v, want validation error", c.date, c.time, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("update issued for invalid reschedule: %v", err)
	}
}

func TestUpdateBookingDateTimeMissingBooking(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectExec(`UPDATE bookings SET date = \?, time = \?, updated_at = \? WHERE id = \?`).
		WithArgs("2026-09-03", "16:30", sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.UpdateBookingDateTime(context.Background(), 99, "2026-09-03", "16:30")
	if !errors.Is(err, models.ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateBookingValidatesBeforeInsert(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	cases := []models.CreateBookingRequest{
		{Date: "01-09-2026", Time: "14:00", Duration: 60},
		{Date: "2026-09-01", Time: "2pm", Duration: 60},
		{Date: "2026-09-01", Time: "14:00", Duration: 0},
	}
	for _, req := range cases {
		if _, err := svc.CreateBooking(context.Background(), req); err == nil {
			t.Errorf("CreateBooking(%+v) succeeded, want validation error", req)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("insert issued for invalid request: %v", err)
	}
}

func TestCreateBookingStartsPending(t *testing.T) {
	svc, mock, recorder := newBookingService(t)

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(10, 20, 30, "2026-09-01", "14:00", 60, 45.0, "pending", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	booking, err := svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		ClientID:   10,
		ProviderID: 20,
		ServiceID:  30,
		Date:       "2026-09-01",
		Time:       "14:00",
		Duration:   60,
		Price:      45.0,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.ID != 7 {
		t.Errorf("ID = %d, want 7", booking.ID)
	}
	if booking.Status != "pending" {
		t.Errorf("status = %q, want pending", booking.Status)
	}
	if len(recorder.events) != 1 || recorder.events[0].Type != "booking_created" {
		t.Errorf("events = %+v, want one booking_created", recorder.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
