package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket streams live entries as JSON. An optional ?level=ERROR,WARN
// query restricts the stream.
func (s *Server) handleWebSocket(c *gin.Context) {
	if s.hub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "live tail is not enabled"})
		return
	}
	levels := levelSet(c.Query("level"))

	// Subscribe before the handshake completes so no entry sent after it is missed.
	entries := s.hub.Subscribe()
	defer s.hub.Unsubscribe(entries)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Read pump: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case entry, ok := <-entries:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if len(levels) > 0 && !levels[entry.Level] {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(entry); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

// levelSet parses a comma-separated level list; empty means every level.
func levelSet(csv string) map[model.Level]bool {
	set := make(map[model.Level]bool)
	for _, l := range strings.Split(csv, ",") {
		if l = strings.TrimSpace(l); l != "" {
			set[model.NormalizeLevel(l)] = true
		}
	}
	return set
}
