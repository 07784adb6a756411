package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/zigger-app/gig-backend/internal/goroutine"
	"github.com/zigger-app/gig-backend/internal/logger"
)

// Hub управляет WebSocket подключениями и адресной доставкой сообщений.
// Один пользователь может держать несколько соединений (телефон и браузер),
// сообщение уходит во все.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub создаёт хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushToUser отправляет полезную нагрузку всем соединениям пользователя.
// Оффлайн-получатель сообщение не теряет: уведомления сохраняются в БД
// до вызова этого метода.
func (h *Hub) PushToUser(userID uuid.UUID, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithField("user_id", userID).
			Warnf("ws: не удалось сериализовать сообщение: %v", err)
		return
	}
	h.broadcast <- message{userID: userID, payload: raw}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Медленного клиента отключаем, не блокируя остальных
			goroutine.SafeGo(client.Close)
		}
	}
}
