package services

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"

	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
)

// NotificationService sends booking pushes over FCM. A nil Client disables
// delivery without disabling the callers.
type NotificationService struct {
	Client   *messaging.Client
	UserRepo *repositories.UserRepository
}

func (s *NotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	_, err := s.Client.Send(ctx, message)
	return err
}

// NotifyBookingEvent pushes the event to every device registered for the
// affected users. Delivery failures are logged, never propagated: a missed
// push must not fail the booking write that triggered it.
func (s *NotificationService) NotifyBookingEvent(ctx context.Context, event models.BookingEvent) {
	if s.Client == nil {
		return
	}

	title, body := bookingEventText(event)
	data := map[string]string{
		"booking_id": fmt.Sprintf("%d", event.BookingID),
		"status":     event.Status,
	}

	for _, userID := range []int{event.ProviderID, event.ClientID} {
		tokens, err := s.UserRepo.GetDeviceTokens(ctx, userID)
		if err != nil {
			log.Printf("fetching device tokens for user %d: %v", userID, err)
			continue
		}
		for _, token := range tokens {
			if err := s.send(ctx, token, title, body, data); err != nil {
				log.Printf("sending booking push to user %d: %v", userID, err)
			}
		}
	}
}

func bookingEventText(event models.BookingEvent) (string, string) {
	switch event.Type {
	case "booking_created":
		return "New booking request", fmt.Sprintf("Booking #%d is awaiting confirmation", event.BookingID)
	case "booking_status_changed":
		return "Booking updated", fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status)
	default:
		return "Booking", fmt.Sprintf("Booking #%d changed", event.BookingID)
	}
}
