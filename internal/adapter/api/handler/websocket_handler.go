package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"firebase.google.com/go/v4/auth"

	"scamwatch/internal/infrastructure/websocket"
	"scamwatch/pkg/logger"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades authenticated clients onto the live update
// feed.
type WebSocketHandler struct {
	manager    *websocket.Manager
	authClient *auth.Client
}

func NewWebSocketHandler(manager *websocket.Manager, authClient *auth.Client) *WebSocketHandler {
	return &WebSocketHandler{manager: manager, authClient: authClient}
}

// Connect authenticates via the token query parameter, since browser
// websocket clients cannot set an Authorization header.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	decoded, err := h.authClient.VerifyIDToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed for %s: %v", decoded.UID, err)
		return err
	}

	client := &websocket.Client{
		UserID: decoded.UID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.manager)

	return nil
}
