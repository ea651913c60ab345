// Package websocket pushes live tournament updates to connected clients.
// Clients subscribe to a tournament; any mutation that can change its
// leaderboard (a score entry, a delivery, a recompute) broadcasts an event
// naming the tournament so watchers refetch instead of polling.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Client is one open connection watching a tournament.
type Client struct {
	TournamentID uuid.UUID
	Send         chan []byte
}

// Message is one payload addressed to every watcher of a tournament.
type Message struct {
	TournamentID uuid.UUID
	Data         []byte
}

// Event is the JSON shape broadcast to clients.
type Event struct {
	Type         string `json:"type"`
	TournamentID string `json:"tournament_id"`
}

// Hub tracks connections grouped by tournament. All map mutation happens on
// the Run goroutine; broadcasts take a read lock only.
type Hub struct {
	clients map[uuid.UUID]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop; call it once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.TournamentID] == nil {
				h.clients[client.TournamentID] = make(map[*Client]bool)
			}
			h.clients[client.TournamentID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients[msg.TournamentID]))
			for client := range h.clients[msg.TournamentID] {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.Send <- msg.Data:
				// A full buffer means the client stopped reading; drop it
				// rather than blocking everyone else's broadcast.
				default:
					h.remove(client)
				}
			}
		}
	}
}

// remove drops a client and closes its Send channel. Only the Run goroutine
// calls it, so a client is closed at most once.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.TournamentID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.TournamentID)
	}
}

// NotifyTournament broadcasts a typed event to every watcher of the
// tournament. eventType names what changed ("scores_updated",
// "scorecard_delivered", "leaderboard_recomputed", ...).
func (h *Hub) NotifyTournament(tournamentID uuid.UUID, eventType string) {
	data, err := json.Marshal(Event{Type: eventType, TournamentID: tournamentID.String()})
	if err != nil {
		return
	}
	h.broadcast <- &Message{TournamentID: tournamentID, Data: data}
}

// Register adds a client; called when a connection opens.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client; called when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
