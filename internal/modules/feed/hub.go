package feed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trueflow/internal/domain"
)

// Event is one feed message pushed to connected dashboards.
type Event struct {
	Type          string                `json:"type"`
	SubmissionID  int64                 `json:"submission_id"`
	FormType      domain.FormType       `json:"form_type"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	BusinessName  string                `json:"business_name,omitempty"`
	Score         int                   `json:"score"`
	Qualification domain.Qualification  `json:"qualification"`
	CRMStatus     domain.DeliveryStatus `json:"crm_status"`
	EmailStatus   domain.DeliveryStatus `json:"email_status"`
	At            time.Time             `json:"at"`
}

// Hub fans accepted submissions out to every connected dashboard client.
// Connections that fail a write are dropped on the spot.
type Hub struct {
	mu          sync.RWMutex
	nextID      int64
	connections map[int64]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register adds a connection and returns its handle for Unregister.
func (h *Hub) Register(conn *websocket.Conn) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.connections[h.nextID] = conn
	return h.nextID
}

// Unregister closes and removes one connection.
func (h *Hub) Unregister(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// ClientCount reports connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// BroadcastSubmission pushes one accepted submission to every client.
func (h *Hub) BroadcastSubmission(s *domain.Submission) {
	event := Event{
		Type:          "submission",
		SubmissionID:  s.ID,
		FormType:      s.FormType,
		Name:          s.FirstName + " " + s.LastName,
		Email:         s.Email,
		BusinessName:  s.BusinessName,
		Score:         s.Score,
		Qualification: s.Qualification,
		CRMStatus:     s.CRMStatus,
		EmailStatus:   s.EmailStatus,
		At:            time.Now(),
	}

	h.mu.RLock()
	conns := make(map[int64]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mu.RUnlock()

	for id, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(id)
		}
	}
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
