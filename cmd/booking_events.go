package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bellaBack/internal/models"
	"bellaBack/internal/notify"
)

const (
	readLimit          = 1 << 20
	readDeadline       = 120 * time.Second
	writeDeadline      = 5 * time.Second
	firstHelloDeadline = 30 * time.Second
)

// pingInterval is a variable so tests can shorten it.
var pingInterval = 15 * time.Second

// subscriber pairs a dashboard connection with its ephemeral notice state.
// Each booking event both lands as a data frame and raises a short-lived
// notice that auto-dismisses on the notifier's schedule.
type subscriber struct {
	conn     *websocket.Conn
	notifier *notify.Notifier
}

type wsFrame struct {
	Kind   string               `json:"kind"`
	Event  *models.BookingEvent `json:"event,omitempty"`
	Notice *notify.Notice       `json:"notice,omitempty"`
}

type wsClient struct {
	userID int
	conn   *websocket.Conn
}

type wsUnreg struct {
	userID int
	conn   *websocket.Conn
}

type noticeUpdate struct {
	userID int
	notice notify.Notice
}

// BookingEventHub pushes booking lifecycle events to connected dashboards.
// Providers and clients subscribe under their own user ID; every event is
// delivered to both sides of the booking if they are online.
type BookingEventHub struct {
	clients    map[int]*subscriber
	events     chan models.BookingEvent
	notices    chan noticeUpdate
	register   chan wsClient
	unregister chan wsUnreg
}

func NewBookingEventHub() *BookingEventHub {
	return &BookingEventHub{
		clients:    make(map[int]*subscriber),
		events:     make(chan models.BookingEvent, 16),
		notices:    make(chan noticeUpdate, 16),
		register:   make(chan wsClient),
		unregister: make(chan wsUnreg),
	}
}

// Publish hands the event to the hub loop. Never blocks the booking flow:
// if the buffer is full the event is dropped and logged.
func (hub *BookingEventHub) Publish(event models.BookingEvent) {
	select {
	case hub.events <- event:
	default:
		log.Printf("booking event dropped: booking=%d type=%s", event.BookingID, event.Type)
	}
}

// Все операции с clients — только здесь.
func (hub *BookingEventHub) Run() {
	for {
		select {
		case client := <-hub.register:
			// если уже есть сокет у этого пользователя — закрываем старый
			if old, ok := hub.clients[client.userID]; ok && old.conn != client.conn {
				_ = old.conn.Close()
			}
			hub.clients[client.userID] = &subscriber{
				conn:     client.conn,
				notifier: hub.newNotifier(client.userID),
			}
			log.Printf("WS register user=%d", client.userID)

		case u := <-hub.unregister:
			// удаляем только если совпадает текущий сокет
			if cur, ok := hub.clients[u.userID]; ok && cur.conn == u.conn {
				_ = cur.conn.Close()
				delete(hub.clients, u.userID)
				log.Printf("WS unregister user=%d", u.userID)
			}

		case event := <-hub.events:
			hub.deliver(event.ProviderID, event)
			if event.ClientID != event.ProviderID {
				hub.deliver(event.ClientID, event)
			}

		case upd := <-hub.notices:
			sub, ok := hub.clients[upd.userID]
			if !ok {
				continue
			}
			hub.writeFrame(upd.userID, sub, wsFrame{Kind: "notice", Notice: &upd.notice})
		}
	}
}

// newNotifier routes every notice change back through the hub loop, so all
// connection writes stay on one goroutine.
func (hub *BookingEventHub) newNotifier(userID int) *notify.Notifier {
	return notify.NewNotifier(notify.DefaultDuration, func(notice notify.Notice) {
		select {
		case hub.notices <- noticeUpdate{userID: userID, notice: notice}:
		default:
		}
	})
}

func (hub *BookingEventHub) deliver(userID int, event models.BookingEvent) {
	sub, ok := hub.clients[userID]
	if !ok {
		return
	}
	if !hub.writeFrame(userID, sub, wsFrame{Kind: "booking_event", Event: &event}) {
		return
	}
	raiseNotice(sub.notifier, event)
}

func (hub *BookingEventHub) writeFrame(userID int, sub *subscriber, frame wsFrame) bool {
	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := sub.conn.WriteJSON(frame); err != nil {
		log.Printf("event send error to=%d: %v", userID, err)
		_ = sub.conn.Close()
		delete(hub.clients, userID)
		return false
	}
	return true
}

func raiseNotice(notifier *notify.Notifier, event models.BookingEvent) {
	if event.Type == "booking_created" {
		notifier.ShowInfo(fmt.Sprintf("New booking request #%d", event.BookingID))
		return
	}
	message := fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status)
	switch event.Status {
	case "confirmed", "completed":
		notifier.ShowSuccess(message)
	case "cancelled", "no_show":
		notifier.ShowError(message)
	default:
		notifier.ShowInfo(message)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// Первым фреймом клиент обязан прислать { "userId": <int> }.
func (app *application) BookingEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(firstHelloDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	var hello struct {
		UserID int `json:"userId"`
	}
	if err := conn.ReadJSON(&hello); err != nil || hello.UserID == 0 {
		log.Println("invalid hello payload:", err)
		_ = writeClose(conn, websocket.ClosePolicyViolation, "hello required")
		_ = conn.Close()
		return
	}
	conn.SetReadDeadline(time.Now().Add(readDeadline))

	app.eventHub.register <- wsClient{userID: hello.UserID, conn: conn}

	go pingLoop(app.eventHub, conn, hello.UserID)
	go drainSubscriber(app.eventHub, conn, hello.UserID)
}

// pingLoop runs off the hub goroutine, so it may only use WriteControl:
// data writes stay on the hub loop, control frames are safe concurrently.
func pingLoop(hub *BookingEventHub, conn *websocket.Conn, uid int) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
			_ = writeClose(conn, websocket.CloseGoingAway, "ping error")
			hub.unregister <- wsUnreg{userID: uid, conn: conn}
			return
		}
	}
}

// Subscribers only listen. The read loop exists to notice disconnects and
// keep the pong handler fed.
func drainSubscriber(hub *BookingEventHub, conn *websocket.Conn, userID int) {
	defer func() {
		hub.unregister <- wsUnreg{userID: userID, conn: conn}
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// аккуратная отправка close-фрейма
func writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
