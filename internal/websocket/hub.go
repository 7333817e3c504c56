package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
)

const redisChannel = "ingestion_events"

// StatusUpdate is the payload pushed to subscribed clients as a file
// moves through the ingestion state machine.
type StatusUpdate struct {
	FileId    string `json:"file_id"`
	PatientId string `json:"patient_id"`
	FileName  string `json:"file_name"`
	Status    string `json:"status"`
}

// Hub fans ingestion status updates out to websocket clients. Clients
// subscribe per patient; redis relays updates across instances.
type Hub struct {
	// patient id -> connected clients (an instructor can watch the
	// same patient from several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.PatientID] = append(h.clients[client.PatientID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"patient_id": client.PatientID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.PatientID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.PatientID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.PatientID]) == 0 {
					delete(h.clients, client.PatientID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish delivers a status update to every client watching the patient
// and relays it to other instances through redis.
func (h *Hub) Publish(update StatusUpdate) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "ingestion_status",
		"data": update,
	})

	patientId, err := uuid.Parse(update.PatientId)
	if err != nil {
		h.logger.Warn("Hub", "Update without valid patient id", map[string]interface{}{"patient_id": update.PatientId})
		return
	}

	// With redis, delivery happens through the channel subscription so
	// every instance (this one included) sees the update exactly once.
	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"patient_id": update.PatientId,
			"message":    json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), redisChannel, payload)
		return
	}

	h.deliverLocal(patientId, data)
}

func (h *Hub) deliverLocal(patientId uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[patientId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// The unregister handler is the only closer of Send; closing
			// here too would close the channel twice and panic the hub.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"patient_id": patientId})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			PatientID string          `json:"patient_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}

		patientId, err := uuid.Parse(payload.PatientID)
		if err != nil {
			continue
		}
		h.deliverLocal(patientId, payload.Message)
	}
}
