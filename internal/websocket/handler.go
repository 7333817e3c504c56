package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches one websocket connection to the hub for a patient's
// ingestion status feed.
func ServeWs(hub *Hub, c *websocket.Conn, patientID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, PatientID: patientID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
