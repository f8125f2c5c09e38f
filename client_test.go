package wamp

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/elast0ny/wamp-async/message"
	"github.com/elast0ny/wamp-async/serializer"
)

// acceptOneRawSocketPeer listens on an ephemeral TCP port, accepts a
// single connection, performs the raw-socket server-side handshake
// (always accepting the client's proposal), and hands the accepted
// connection to drive.
func acceptOneRawSocketPeer(t *testing.T, drive func(conn net.Conn, codec serializer.Serializer)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		var hs [4]byte
		if _, err := io.ReadFull(conn, hs[:]); err != nil {
			conn.Close()
			return
		}
		reply := hs
		conn.Write(reply[:])

		nibble := hs[1] & 0x0F
		var id serializer.ID
		switch nibble {
		case 1:
			id = serializer.JSON
		case 2:
			id = serializer.MsgPack
		case 0:
			id = serializer.CBOR
		}
		codec, err := serializer.New(id)
		if err != nil {
			conn.Close()
			return
		}
		drive(conn, codec)
	}()
	return ln.Addr().String()
}

func readRawSocketFrame(conn net.Conn) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return nil, err
	}
	length := uint32(header[3]) + uint32(header[2])<<8 + uint32(header[1])<<16
	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeRawSocketFrame(conn net.Conn, payload []byte) error {
	var header [4]byte
	header[0] = 0
	header[1] = byte(len(payload) >> 16)
	header[2] = byte(len(payload) >> 8)
	header[3] = byte(len(payload))
	if _, err := conn.Write(header[:]); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

func TestClientJoinPublishLeaveOverRawSocket(t *testing.T) {
	addr := acceptOneRawSocketPeer(t, func(conn net.Conn, codec serializer.Serializer) {
		defer conn.Close()

		frame, err := readRawSocketFrame(conn)
		if err != nil {
			return
		}
		m, err := codec.Unpack(frame)
		if err != nil {
			return
		}
		if _, ok := m.(*message.Hello); !ok {
			return
		}
		welcomeFrame, _ := codec.Pack(&message.Welcome{Session: 99, Details: message.Dict{}})
		writeRawSocketFrame(conn, welcomeFrame)

		frame, err = readRawSocketFrame(conn)
		if err != nil {
			return
		}
		m, err = codec.Unpack(frame)
		if err != nil {
			return
		}
		pub, ok := m.(*message.Publish)
		if !ok || pub.Topic != "a.b" {
			return
		}

		frame, err = readRawSocketFrame(conn)
		if err != nil {
			return
		}
		m, err = codec.Unpack(frame)
		if err != nil {
			return
		}
		if _, ok := m.(*message.Goodbye); !ok {
			return
		}
		goodbyeFrame, _ := codec.Pack(&message.Goodbye{Details: message.Dict{}, Reason: "wamp.close.goodbye_and_out"})
		writeRawSocketFrame(conn, goodbyeFrame)
	})

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	client, err := DialRawSocket(addr, cfg)
	if err != nil {
		t.Fatalf("DialRawSocket: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	joined, err := client.Join(ctx, "realm1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.SessionID != 99 {
		t.Fatalf("session id = %d, want 99", joined.SessionID)
	}

	if _, err := client.Publish(ctx, "a.b", message.Dict{}, nil, nil, false); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if err := client.Leave(ctx); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	if err := client.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestNewConfigRejectsNoRoles(t *testing.T) {
	if _, err := NewConfig(WithRoles(0)); err == nil {
		t.Fatal("expected an error for zero roles")
	}
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg, err := NewConfig(WithAgent("custom/1.0"), WithSerializerPriority(serializer.JSON))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.agent != "custom/1.0" {
		t.Fatalf("agent = %q, want custom/1.0", cfg.agent)
	}
	if len(cfg.serializerPriority) != 1 || cfg.serializerPriority[0] != serializer.JSON {
		t.Fatalf("serializerPriority = %v, want [JSON]", cfg.serializerPriority)
	}
}
