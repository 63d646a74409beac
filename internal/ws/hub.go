// Package ws streams live activity for daily questions to websocket
// subscribers, such as a dashboard watching answers come in.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// AnswerEvent is broadcast to a question's subscribers whenever someone
// answers it.
type AnswerEvent struct {
	QuestionID   uint             `json:"question_id"`
	Correct      bool             `json:"correct"`
	Distribution map[string]int64 `json:"distribution"`
}

// ExpiredEvent closes out a daily question's live feed.
type ExpiredEvent struct {
	QuestionID   uint             `json:"question_id"`
	Distribution map[string]int64 `json:"distribution"`
}

// Hub fans out events to subscribers grouped by question id.
type Hub struct {
	mu        sync.RWMutex
	questions map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		questions: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(questionID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.questions[questionID] == nil {
		h.questions[questionID] = make(map[*websocket.Conn]bool)
	}
	h.questions[questionID][conn] = true
	log.Printf("ws: client subscribed to question %d (total: %d)", questionID, len(h.questions[questionID]))
}

func (h *Hub) RemoveConnection(questionID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.questions[questionID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.questions, questionID)
		}
		log.Printf("ws: client unsubscribed from question %d", questionID)
	}
}

func (h *Hub) Broadcast(questionID uint, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	// Full lock: broadcasts run on per-update goroutines, and both the map
	// cleanup below and writes to a shared conn must be serialized.
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.questions[questionID]
	if !ok {
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.questions, questionID)
	}
}
