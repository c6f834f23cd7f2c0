package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/react-studio/engine/internal/api/middleware"
	"github.com/react-studio/engine/internal/workspace"
	"github.com/react-studio/engine/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Session identity is the only access control; origins are open like the
	// rest of the CORS policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchHandler streams workspace events over a websocket so the file tree,
// editor, and preview can follow generation results live.
type WatchHandler struct {
	workspace *workspace.Manager
}

func NewWatchHandler(ws *workspace.Manager) *WatchHandler {
	return &WatchHandler{workspace: ws}
}

func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	store, ok := h.workspace.Peek(sessionID)
	if !ok {
		writeErrorStr(w, http.StatusConflict, "no open workspace for session")
		return
	}
	if p, open := store.Project(); !open || p.ID != projectID {
		writeErrorStr(w, http.StatusConflict, "project is not open in this session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	events, cancel := store.Subscribe()
	defer cancel()

	logger.L().Info("watch started",
		zap.String("session", sessionID),
		zap.String("project_id", projectID.String()),
	)

	// Reader only consumes control frames; a read error means the client went
	// away and the write loop should stop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case ev, open := <-events:
			if !open {
				// Store evicted; tell the client instead of hanging.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "workspace closed"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
