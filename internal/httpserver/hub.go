package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"industriguard/internal/bootstrap/logging"
	"industriguard/internal/ports"
)

const (
	// safetyUpdateEvent is the event name dashboards subscribe to.
	safetyUpdateEvent = "safety_update"

	// sessionQueueSize bounds the per-session send queue. A session that
	// falls this far behind starts dropping updates instead of stalling
	// the rest of the fanout.
	sessionQueueSize = 16

	welcomeMessage = "Connected to IndustriGuard backend"
)

// pushEnvelope is the wire frame of the push channel: event name plus the
// safety update payload.
type pushEnvelope struct {
	Event string             `json:"event"`
	Data  ports.SafetyUpdate `json:"data"`
}

type session struct {
	id   string
	conn *websocket.Conn
	send chan pushEnvelope
}

// Hub tracks connected dashboard sessions and fans safety updates out to all
// of them. Delivery is fire-and-forget: each session drains its own queue,
// and a slow or dead session never delays the others or the ingestion path.
type Hub struct {
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser dashboards connect cross-origin; access control is
			// out of scope for this service.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// HandleWS upgrades the request and registers the session. The new session
// immediately receives a synthetic baseline update so the dashboard renders
// a known state before any real event arrives.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(ctx, "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan pushEnvelope, sessionQueueSize),
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	count := len(h.sessions)
	h.mu.Unlock()

	logging.Info(ctx, "dashboard session connected",
		slog.String("session_id", sess.id),
		slog.Int("sessions", count),
	)

	// Queue the welcome baseline before the write pump starts draining, so
	// it is always the first frame the dashboard sees.
	sess.send <- pushEnvelope{
		Event: safetyUpdateEvent,
		Data: ports.SafetyUpdate{
			RiskLevel:  "LOW",
			Score:      0,
			MissingPPE: []string{},
			Message:    welcomeMessage,
		},
	}

	go sess.writePump()
	go h.readPump(sess)
}

// Broadcast queues the update on every connected session. Saturated sessions
// drop the frame; they reconcile through the pull endpoints.
func (h *Hub) Broadcast(ctx context.Context, update ports.SafetyUpdate) {
	if update.MissingPPE == nil {
		update.MissingPPE = []string{}
	}
	frame := pushEnvelope{Event: safetyUpdateEvent, Data: update}

	// Sends happen under RLock and removal closes the channel under the
	// write lock, so a queue is never closed mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sess := range h.sessions {
		select {
		case sess.send <- frame:
		default:
			logging.Warn(ctx, "dropping update for slow session",
				slog.String("session_id", sess.id),
			)
		}
	}
}

// SessionCount reports the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (s *session) writePump() {
	for frame := range s.send {
		if err := s.conn.WriteJSON(frame); err != nil {
			// The read pump notices the dead connection and unregisters.
			return
		}
	}
	_ = s.conn.Close()
}

// readPump discards inbound frames and unregisters the session when the
// connection drops.
func (h *Hub) readPump(sess *session) {
	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sess)
}

func (h *Hub) remove(sess *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sess.id]; !ok {
		return
	}
	delete(h.sessions, sess.id)
	close(sess.send)
}
