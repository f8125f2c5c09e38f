package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elast0ny/wamp-async/serializer"
)

const (
	wsHandshakeTimeout = 15 * time.Second
	wsWriteTimeout     = 10 * time.Second
	wsPongWait         = 60 * time.Second
	wsPingInterval     = 30 * time.Second
)

// subprotocolFor maps a serializer.ID to the WAMP WebSocket subprotocol
// name negotiated via Sec-WebSocket-Protocol, and reports whether that
// codec's frames are sent as WebSocket text (true) or binary (false).
func subprotocolFor(id serializer.ID) (name string, text bool, err error) {
	switch id {
	case serializer.JSON:
		return "wamp.2.json", true, nil
	case serializer.MsgPack:
		return "wamp.2.msgpack", false, nil
	case serializer.CBOR:
		return "wamp.2.cbor", false, nil
	default:
		return "", false, fmt.Errorf("transport/websocket: no subprotocol for serializer %v", id)
	}
}

// WebSocket is the WAMP WebSocket transport: one negotiated subprotocol,
// text frames for JSON and binary frames for MsgPack/CBOR, with
// application-level ping/pong keepalive.
type WebSocket struct {
	conn     *websocket.Conn
	textMode bool

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket opens a WebSocket connection to url, offering id's
// subprotocol for negotiation.
func DialWebSocket(ctx context.Context, url string, id serializer.ID) (*WebSocket, error) {
	return dialWebSocket(ctx, url, id, nil)
}

// DialWebSocketTLS opens a WebSocket connection to a wss:// url using cfg,
// offering id's subprotocol for negotiation.
func DialWebSocketTLS(ctx context.Context, url string, cfg *tls.Config, id serializer.ID) (*WebSocket, error) {
	return dialWebSocket(ctx, url, id, cfg)
}

func dialWebSocket(ctx context.Context, url string, id serializer.ID, tlsCfg *tls.Config) (*WebSocket, error) {
	protocol, text, err := subprotocolFor(id)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: wsHandshakeTimeout,
		Subprotocols:     []string{protocol},
		TLSClientConfig:  tlsCfg,
	}

	conn, resp, err := dialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("transport/websocket: dial %s: %w", url, err)
	}
	if resp != nil && conn.Subprotocol() != protocol {
		conn.Close()
		return nil, fmt.Errorf("transport/websocket: server did not accept subprotocol %s (negotiated %q)", protocol, conn.Subprotocol())
	}

	ws := &WebSocket{conn: conn, textMode: text}

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	go ws.pingLoop()

	slog.Debug("websocket transport connected", "url", url, "subprotocol", protocol)
	return ws, nil
}

func (w *WebSocket) pingLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for range ticker.C {
		w.writeMu.Lock()
		err := w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
		w.writeMu.Unlock()
		if err != nil {
			slog.Debug("websocket ping failed, stopping keepalive loop", "error", err)
			return
		}
	}
}

// Send writes frame as a single WebSocket message, text or binary
// depending on the negotiated codec.
func (w *WebSocket) Send(frame []byte) error {
	msgType := websocket.BinaryMessage
	if w.textMode {
		msgType = websocket.TextMessage
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := w.conn.WriteMessage(msgType, frame); err != nil {
		return fmt.Errorf("transport/websocket: write: %w", err)
	}
	return nil
}

// Recv blocks for the next WebSocket message frame, transparently
// handling ping/pong and close control frames via gorilla's handlers.
func (w *WebSocket) Recv() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("transport/websocket: read: %w", err)
	}
	return data, nil
}

// Close sends a close frame and closes the underlying connection.
func (w *WebSocket) Close() error {
	w.closeOnce.Do(func() {
		w.writeMu.Lock()
		w.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteTimeout))
		w.writeMu.Unlock()
		w.closeErr = w.conn.Close()
	})
	return w.closeErr
}
