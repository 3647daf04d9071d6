package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"industriguard/internal/ports"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial hub: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) pushEnvelope {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	var frame pushEnvelope
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestHubSendsWelcomeBaselineOnConnect(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	frame := readEnvelope(t, conn)
	if frame.Event != safetyUpdateEvent {
		t.Fatalf("event = %q", frame.Event)
	}
	if frame.Data.RiskLevel != "LOW" || frame.Data.Score != 0 {
		t.Fatalf("baseline = %+v", frame.Data)
	}
	if frame.Data.MissingPPE == nil || len(frame.Data.MissingPPE) != 0 {
		t.Fatalf("baseline missing_ppe = %#v", frame.Data.MissingPPE)
	}
	if frame.Data.Message != welcomeMessage {
		t.Fatalf("message = %q", frame.Data.Message)
	}
}

func TestHubBroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub()
	first, cleanupFirst := dialHub(t, hub)
	defer cleanupFirst()
	second, cleanupSecond := dialHub(t, hub)
	defer cleanupSecond()

	// Drain welcome frames.
	readEnvelope(t, first)
	readEnvelope(t, second)

	hub.Broadcast(context.Background(), ports.SafetyUpdate{
		RiskLevel:  "HIGH",
		Score:      87,
		MissingPPE: []string{"Helmet"},
		CameraID:   "CAM-02",
		Timestamp:  "2026-08-29 09:00:00",
	})

	for _, conn := range []*websocket.Conn{first, second} {
		frame := readEnvelope(t, conn)
		if frame.Event != safetyUpdateEvent {
			t.Fatalf("event = %q", frame.Event)
		}
		if frame.Data.RiskLevel != "HIGH" || frame.Data.CameraID != "CAM-02" {
			t.Fatalf("frame = %+v", frame.Data)
		}
	}
}

func TestHubBroadcastDoesNotBlockOnSaturatedSession(t *testing.T) {
	hub := NewHub()
	_, cleanup := dialHub(t, hub)
	defer cleanup()

	// Never read from the client; saturate the queue far past its capacity.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sessionQueueSize*4; i++ {
			hub.Broadcast(context.Background(), ports.SafetyUpdate{RiskLevel: "LOW"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow session")
	}
}

func TestHubRemovesSessionOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)

	if hub.SessionCount() != 1 {
		t.Fatalf("sessions = %d", hub.SessionCount())
	}

	_ = conn.Close()
	defer cleanup()

	deadline := time.Now().Add(2 * time.Second)
	for hub.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not removed, count = %d", hub.SessionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Broadcast to an empty hub is a no-op, not a panic.
	hub.Broadcast(context.Background(), ports.SafetyUpdate{RiskLevel: "LOW"})
}
