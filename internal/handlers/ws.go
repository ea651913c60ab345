package handlers

import (
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fergarri/golf-tournament-app/internal/websocket"
)

// WebsocketUpgrade gates the /ws routes: plain HTTP requests get a 426, only
// genuine upgrade requests reach the socket handler.
func WebsocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// TournamentSocket handles GET /ws/tournaments/:id. The connection is
// registered with the hub under its tournament and then pumped until either
// side closes.
func TournamentSocket(hub *websocket.Hub) fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		tournamentID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			_ = conn.Close()
			return
		}

		client := &websocket.Client{
			TournamentID: tournamentID,
			Send:         make(chan []byte, 64),
		}
		hub.Register(client)

		// Writer loop: forward hub broadcasts until the hub closes Send.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for data := range client.Send {
				if err := conn.WriteMessage(fiberws.TextMessage, data); err != nil {
					return
				}
			}
		}()

		// Reader loop: clients never send payloads, but reading is what
		// detects the peer closing the connection.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(client)
		<-done
		_ = conn.Close()
	})
}
