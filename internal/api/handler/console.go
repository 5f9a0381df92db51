package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/console"
)

const writeWait = 10 * time.Second

// ConsoleHandler exposes the command audit log: recent history over plain
// JSON and a live tail over a websocket
type ConsoleHandler struct {
	log      *console.Log
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(log *console.Log, logger *slog.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		log:    log,
		logger: logger.With(slog.String("component", "console-ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens in middleware; the origin does not gate access
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Recent handles GET /api/v1/console
func (h *ConsoleHandler) Recent(w http.ResponseWriter, r *http.Request) {
	entries := h.log.Recent()
	out := make([]response.ConsoleEntry, len(entries))
	for i, entry := range entries {
		out[i] = response.ConsoleEntry{
			Time: entry.Time,
			Kind: string(entry.Kind),
			Text: entry.Text,
		}
	}
	response.JSON(w, http.StatusOK, response.ConsoleLog{Entries: out})
}

// Stream handles GET /api/v1/console/stream. It replays recent history and
// then tails new entries until the client disconnects.
func (h *ConsoleHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, cancel := h.log.Subscribe()
	defer cancel()

	for _, entry := range h.log.Recent() {
		if err := h.writeEntry(conn, entry); err != nil {
			return
		}
	}

	// Reader goroutine: we never expect client messages, but reading is what
	// surfaces the close frame
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
		case <-r.Context().Done():
			return
		case entry, open := <-ch:
			if !open {
				return
			}
			if err := h.writeEntry(conn, entry); err != nil {
				return
			}
		}
	}
}

func (h *ConsoleHandler) writeEntry(conn *websocket.Conn, entry console.Entry) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(entry)
}
