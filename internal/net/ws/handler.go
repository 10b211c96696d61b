// Package ws serves the debug spectator feed: a read-only websocket
// broadcast of per-frame snapshots, off by default and never required
// by the judge protocol on stdin/stdout. A spectator cannot send
// commands, so this handler never reads application messages off the
// connection, only pings to detect disconnects.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"portlogistics/server/internal/monitor"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// HandlerConfig controls the upgrader's buffer sizing and origin check.
type HandlerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// Handler upgrades incoming requests to websockets and registers each
// connection with a monitor.Hub for the lifetime of the socket.
type Handler struct {
	hub      *monitor.Hub
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHandler returns a Handler broadcasting hub's published frames.
func NewHandler(hub *monitor.Hub, cfg HandlerConfig, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	readBuf := cfg.ReadBufferSize
	if readBuf == 0 {
		readBuf = 1024
	}
	writeBuf := cfg.WriteBufferSize
	if writeBuf == 0 {
		writeBuf = 1024
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Handle upgrades the request and streams published frames until the
// client disconnects or a write fails.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("monitor: upgrade failed: %v", err)
		return
	}

	client := h.hub.Register(16)
	defer h.hub.Unregister(client)

	go func() {
		h.readPump(conn)
		// Unregistering closes the mailbox, which ends writePump.
		h.hub.Unregister(client)
	}()
	h.writePump(conn, client)
}

// readPump only watches for the connection closing; a spectator has
// nothing to say, so any inbound frame is discarded.
func (h *Handler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, client *monitor.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case payload, ok := <-client.Send():
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
