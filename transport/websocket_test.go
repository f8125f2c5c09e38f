package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elast0ny/wamp-async/serializer"
)

func newEchoServer(t *testing.T, protocol string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		Subprotocols:    []string{protocol},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
}

func TestWebSocketSendRecvRoundTrip(t *testing.T) {
	srv := newEchoServer(t, "wamp.2.json")
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, err := DialWebSocket(ctx, url, serializer.JSON)
	if err != nil {
		t.Fatalf("DialWebSocket: %v", err)
	}
	defer ws.Close()

	if !ws.textMode {
		t.Fatal("expected JSON serializer to use text frames")
	}

	payload := []byte(`[1,"realm1",{}]`)
	if err := ws.Send(payload); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got, err := ws.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("Recv() = %q, want %q", got, payload)
	}
}

func TestWebSocketRejectsUnknownSerializer(t *testing.T) {
	_, err := DialWebSocket(context.Background(), "ws://127.0.0.1:1/", serializer.ID(99))
	if err == nil {
		t.Fatal("expected error for unsupported serializer id")
	}
}

func TestSubprotocolForBinaryCodecs(t *testing.T) {
	for _, id := range []serializer.ID{serializer.MsgPack, serializer.CBOR} {
		_, text, err := subprotocolFor(id)
		if err != nil {
			t.Fatalf("subprotocolFor(%v): %v", id, err)
		}
		if text {
			t.Errorf("%v: expected binary frame mode, got text", id)
		}
	}
}
