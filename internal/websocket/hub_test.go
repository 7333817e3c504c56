package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
)

func clientCount(hub *Hub, patientId uuid.UUID) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients[patientId])
}

func receiveUpdate(t *testing.T, c *Client) StatusUpdate {
	t.Helper()
	select {
	case msg := <-c.Send:
		var envelope struct {
			Type string       `json:"type"`
			Data StatusUpdate `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &envelope))
		require.Equal(t, "ingestion_status", envelope.Type)
		return envelope.Data
	case <-time.After(time.Second):
		t.Fatal("client did not receive an update")
		return StatusUpdate{}
	}
}

func TestHub_SlowClientIsDroppedWithoutKillingTheHub(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	patientId := uuid.New()
	slow := &Client{Hub: hub, PatientID: patientId, Send: make(chan []byte, 1)}
	healthy := &Client{Hub: hub, PatientID: patientId, Send: make(chan []byte, 8)}
	hub.register <- slow
	hub.register <- healthy

	require.Eventually(t, func() bool {
		return clientCount(hub, patientId) == 2
	}, time.Second, 10*time.Millisecond)

	// Fill the slow client's buffer so the next publish overflows it.
	slow.Send <- []byte("stuck")

	update := StatusUpdate{
		FileId:    uuid.New().String(),
		PatientId: patientId.String(),
		FileName:  "history",
		Status:    "completed",
	}
	hub.Publish(update)

	got := receiveUpdate(t, healthy)
	assert.Equal(t, "completed", got.Status)

	// The overflowing client gets unregistered and its channel closed
	// exactly once, by the unregister handler.
	require.Eventually(t, func() bool {
		return clientCount(hub, patientId) == 1
	}, time.Second, 10*time.Millisecond)

	<-slow.Send // drain the stuck frame
	_, open := <-slow.Send
	assert.False(t, open, "dropped client's send channel is closed")

	// The hub is still alive and keeps serving the remaining client.
	hub.Publish(update)
	got = receiveUpdate(t, healthy)
	assert.Equal(t, "history", got.FileName)
}

func TestHub_InvalidPatientIdIsIgnored(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	patientId := uuid.New()
	client := &Client{Hub: hub, PatientID: patientId, Send: make(chan []byte, 1)}
	hub.register <- client
	require.Eventually(t, func() bool {
		return clientCount(hub, patientId) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(StatusUpdate{FileId: uuid.New().String(), PatientId: "not-a-uuid", Status: "error"})

	select {
	case <-client.Send:
		t.Fatal("update without a valid patient id must not be delivered")
	case <-time.After(50 * time.Millisecond):
	}
}
