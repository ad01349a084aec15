// Package ws рассылает клиентам уведомления об изменении слотов по датам.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
)

const (
	writeWait = 5 * time.Second

	// очередь исходящих сообщений одного подписчика
	sendBuffer = 16

	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// SlotsChanged сообщение клиенту: слоты на дату изменились, нужно перечитать доступность
type SlotsChanged struct {
	Type events.Type `json:"type"`
	Date string      `json:"date"`
}

// client подписчик с собственной очередью отправки.
// В conn пишет только writePump.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub подписчики websocket, сгруппированные по дате.
// Реализует events.Publisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   Logger

	// send клиента закрывает тот, кто удалил его из subscribers
	mu          sync.Mutex
	subscribers map[string]map[*client]struct{}
}

func NewHub(allowedOrigins []string, logger Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		logger:      logger,
		subscribers: make(map[string]map[*client]struct{}),
	}
}

// Handle GET /api/v1/ws/slots?date=YYYY-MM-DD
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /ws/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	key := date.Format(domain.DateFormat)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("GET /ws/slots - Upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.subscribe(key, c)
	defer h.unsubscribe(key, c)

	go h.writePump(key, c)

	// держим соединение, пока клиент не отключится
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish ставит SlotsChanged в очереди подписчиков даты события и не ждёт записи
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(SlotsChanged{Type: event.Type, Date: event.Date})
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrEncode, err)
	}
	h.broadcast(event.Date, payload)
	return nil
}

// Subscribers число подключений на дату
func (h *Hub) Subscribers(date string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[date])
}

// Close отключает всех подписчиков. Writer каждого отправляет close frame и закрывает conn.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, clients := range h.subscribers {
		for c := range clients {
			close(c.send)
		}
		delete(h.subscribers, key)
	}
}

func (h *Hub) subscribe(key string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*client]struct{})
	}
	h.subscribers[key][c] = struct{}{}
}

func (h *Hub) unsubscribe(key string, c *client) {
	h.mu.Lock()
	h.removeLocked(key, c)
	h.mu.Unlock()

	c.conn.Close()
}

// removeLocked удаляет клиента и закрывает его очередь, если он ещё подписан
func (h *Hub) removeLocked(key string, c *client) {
	clients, ok := h.subscribers[key]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.subscribers, key)
	}
}

// broadcast не блокируется: подписчик с переполненной очередью отключается
func (h *Hub) broadcast(key string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.subscribers[key] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Hub: drop slow subscriber for date=%s", key)
			h.removeLocked(key, c)
		}
	}
}

func (h *Hub) writePump(key string, c *client) {
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("Hub: write to subscriber for date=%s failed: %v", key, err)
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
