package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub pushes live seat availability to clients watching slots, so the
// catalog can grey out a lesson the moment it fills up.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type SlotUpdate struct {
	SlotID            uuid.UUID `json:"slot_id"`
	Status            string    `json:"status"`
	MaxCapacity       int       `json:"max_capacity"`
	CurrentEnrollment int       `json:"current_enrollment"`
	SeatsLeft         int       `json:"seats_left"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var availability = make(chan SlotUpdate, 64)

// BroadcastAvailability queues a slot update for all connected clients.
// Never blocks the caller: if the hub is saturated the update is dropped,
// clients reconcile on their next fetch.
func BroadcastAvailability(update SlotUpdate) {
	select {
	case availability <- update:
	default:
		log.Printf("⚠️ Availability broadcast dropped for slot %s: hub busy", update.SlotID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case update := <-availability:
			var stale []uuid.UUID
			clientsMu.RLock()
			for userID, conn := range clients {
				if err := conn.WriteJSON(update); err != nil {
					log.Printf("Error sending slot update to client %s: %v", userID, err)
					conn.Close()
					stale = append(stale, userID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
