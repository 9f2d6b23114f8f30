package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bellaBack/internal/models"
)

// Data frames go out from the hub loop while keepalive pings go out from a
// second goroutine; the stream must stay intact with both running at once.
func TestBookingEventsStreamSurvivesPings(t *testing.T) {
	oldInterval := pingInterval
	pingInterval = 2 * time.Millisecond
	defer func() { pingInterval = oldInterval }()

	hub := NewBookingEventHub()
	go hub.Run()
	app := &application{eventHub: hub}

	srv := httptest.NewServer(http.HandlerFunc(app.BookingEventsHandler))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]int{"userId": 7}); err != nil {
		t.Fatalf("hello: %v", err)
	}

	frames := make(chan wsFrame, 64)
	readErr := make(chan error, 1)
	go func() {
		for {
			var frame wsFrame
			if err := conn.ReadJSON(&frame); err != nil {
				readErr <- err
				return
			}
			frames <- frame
		}
	}()

	deadline := time.After(5 * time.Second)
	var events, notices int
	for events+notices < 20 {
		hub.Publish(models.BookingEvent{
			Type:       "booking_status_changed",
			BookingID:  events + 1,
			ProviderID: 7,
			ClientID:   8,
			Status:     "confirmed",
		})
		select {
		case frame := <-frames:
			switch frame.Kind {
			case "booking_event":
				events++
			case "notice":
				notices++
			}
		case err := <-readErr:
			t.Fatalf("read: %v", err)
		case <-time.After(2 * time.Millisecond):
		case <-deadline:
			t.Fatalf("got %d event and %d notice frames before timeout", events, notices)
		}
	}
	if events == 0 || notices == 0 {
		t.Errorf("events = %d, notices = %d, want both kinds", events, notices)
	}
}
