package server

import (
	"log/slog"

	"folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveViewsHandler streams the owner's accepted views over a WebSocket.
// Identity comes from the ticket consumed by AuthRequired before the upgrade.
func (s *Server) LiveViewsHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		if s.hub == nil || userID == 0 {
			if err := conn.Close(); err != nil {
				middleware.Logger.Debug("websocket close error", slog.String("error", err.Error()))
			}
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("live views connection rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			if werr := conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`)); werr != nil {
				middleware.Logger.Debug("websocket write error", slog.String("error", werr.Error()))
			}
			if cerr := conn.Close(); cerr != nil {
				middleware.Logger.Debug("websocket close error", slog.String("error", cerr.Error()))
			}
			return
		}

		middleware.Logger.Info("live views connected", slog.Uint64("user_id", uint64(userID)))

		go client.WritePump()
		client.ReadPump()
	})
}
