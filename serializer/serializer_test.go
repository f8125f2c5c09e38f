package serializer

import (
	"testing"

	"github.com/elast0ny/wamp-async/message"
)

func TestRoundTripAllCodecs(t *testing.T) {
	ids := []ID{JSON, MsgPack, CBOR}

	msgs := []message.Message{
		&message.Hello{Realm: "realm1", Details: message.Dict{"roles": map[string]interface{}{}}},
		&message.Welcome{Session: 42, Details: message.Dict{"agent": "wamp-async"}},
		&message.Publish{Request: 1, Options: message.Dict{}, Topic: "com.example.topic", Args: message.Args{1, "two", 3.0}, KwArgs: message.KwArgs{"k": "v"}},
		&message.Event{Subscription: 2, Publication: 3, Details: message.Dict{}, Args: message.Args{true, nil}},
		&message.Call{Request: 4, Options: message.Dict{}, Procedure: "com.example.add", Args: message.Args{1.0, 2.0}},
		&message.Result{Request: 4, Details: message.Dict{}, Args: message.Args{3.0}},
		&message.Error{RequestType: message.CodeCall, Request: 4, Details: message.Dict{}, URI: "wamp.error.runtime_error"},
	}

	for _, id := range ids {
		id := id
		t.Run(id.String(), func(t *testing.T) {
			s, err := New(id)
			if err != nil {
				t.Fatalf("New(%v): %v", id, err)
			}
			if s.Name() != id.String() {
				t.Errorf("Name() = %q, want %q", s.Name(), id.String())
			}
			for _, m := range msgs {
				data, err := s.Pack(m)
				if err != nil {
					t.Fatalf("Pack(%T): %v", m, err)
				}
				got, err := s.Unpack(data)
				if err != nil {
					t.Fatalf("Unpack after Pack(%T): %v", m, err)
				}
				if got.Code() != m.Code() {
					t.Errorf("%T: code mismatch after round trip: got %v want %v", m, got.Code(), m.Code())
				}
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New(ID(99)); err == nil {
		t.Fatal("expected error for unsupported serializer id")
	}
}

func TestUnpackGarbage(t *testing.T) {
	for _, id := range []ID{JSON, MsgPack, CBOR} {
		s, err := New(id)
		if err != nil {
			t.Fatalf("New(%v): %v", id, err)
		}
		if _, err := s.Unpack([]byte("not a valid wire tuple")); err == nil {
			t.Errorf("%v: expected error unpacking garbage", id)
		}
	}
}
