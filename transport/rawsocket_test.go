package transport

import (
	"net"
	"testing"
	"time"

	"github.com/elast0ny/wamp-async/serializer"
)

// handshakingPipe returns a connected net.Conn pair where the "server" side
// performs the raw-socket server-side handshake reply inline.
func handshakingPipe(t *testing.T, id serializer.ID) (*RawSocket, net.Conn) {
	t.Helper()
	client, server := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var hs [4]byte
		if _, err := server.Read(hs[:]); err != nil {
			return
		}
		// Echo the client's handshake bytes back to signal acceptance.
		server.Write(hs[:])
	}()

	rs, err := newRawSocket(client, id, 0)
	if err != nil {
		t.Fatalf("newRawSocket: %v", err)
	}
	<-done
	return rs, server
}

func TestRawSocketHandshakeAccepted(t *testing.T) {
	rs, server := handshakingPipe(t, serializer.JSON)
	defer rs.Close()
	defer server.Close()

	if rs.maxMsgSize == 0 {
		t.Fatal("expected a negotiated max message size")
	}
}

func TestRawSocketSendRecv(t *testing.T) {
	rs, server := handshakingPipe(t, serializer.MsgPack)
	defer rs.Close()
	defer server.Close()

	payload := []byte(`{"hello":"world"}`)
	errCh := make(chan error, 1)
	go func() { errCh <- rs.Send(payload) }()

	var header [4]byte
	if _, err := readFull(server, header[:]); err != nil {
		t.Fatalf("reading frame header: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if header[0] != frameTypeRegular {
		t.Fatalf("frame type = %d, want %d", header[0], frameTypeRegular)
	}
	length := uint32(header[3]) + uint32(header[2])<<8 + uint32(header[1])<<16
	if int(length) != len(payload) {
		t.Fatalf("frame length = %d, want %d", length, len(payload))
	}

	body := make([]byte, length)
	if _, err := readFull(server, body); err != nil {
		t.Fatalf("reading frame payload: %v", err)
	}
	if string(body) != string(payload) {
		t.Fatalf("frame payload = %q, want %q", body, payload)
	}
}

func TestRawSocketRejectsOversizedFrame(t *testing.T) {
	rs, server := handshakingPipe(t, serializer.JSON)
	defer rs.Close()
	defer server.Close()

	rs.maxMsgSize = 4
	err := rs.Send([]byte("this is far too long"))
	if err == nil {
		t.Fatal("expected FrameTooLargeError")
	}
	if _, ok := err.(*FrameTooLargeError); !ok {
		t.Fatalf("expected *FrameTooLargeError, got %T: %v", err, err)
	}
}

func TestRawSocketHandshakeRejectedSerializerUnsupported(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var hs [4]byte
		if _, err := server.Read(hs[:]); err != nil {
			return
		}
		reply := [4]byte{hs[0], 1 << 4, 0, 0}
		server.Write(reply[:])
	}()

	_, err := newRawSocket(client, serializer.CBOR, 0)
	<-done
	if err == nil {
		t.Fatal("expected a handshake rejection error")
	}
	rejected, ok := err.(*HandshakeRejectedError)
	if !ok {
		t.Fatalf("expected *HandshakeRejectedError, got %T: %v", err, err)
	}
	if !rejected.SerializerUnsupported() {
		t.Fatalf("expected SerializerUnsupported() true, nibble = %d", rejected.Nibble)
	}
}

func TestSizeNibble(t *testing.T) {
	cases := []struct {
		want uint32
		n    byte
	}{
		{0, 0},
		{512, 0},
		{513, 1},
		{1 << 24, 15},
	}
	for _, c := range cases {
		if got := sizeNibble(c.want); got != c.n {
			t.Errorf("sizeNibble(%d) = %d, want %d", c.want, got, c.n)
		}
	}
}

// readFull reads exactly len(buf) bytes, retrying short reads — net.Pipe
// reads can be delivered in pieces.
func readFull(conn net.Conn, buf []byte) (int, error) {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
