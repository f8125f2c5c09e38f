package message

import (
	"reflect"
	"testing"
)

// roundTrip simulates what a codec does: Encode to a tuple, push it through
// a value-losing boundary resembling JSON's decode (numbers become
// float64, nil maps become absent), then Decode back.
func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	tuple, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	jsonish := make([]interface{}, len(tuple))
	for i, v := range tuple {
		jsonish[i] = toFloat64Like(v)
	}
	got, err := Decode(jsonish)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

// toFloat64Like mimics encoding/json's decode-to-interface{} behavior for
// the handful of types Encode ever produces.
func toFloat64Like(v interface{}) interface{} {
	switch x := v.(type) {
	case Code:
		return float64(x)
	case uint64:
		return float64(x)
	case int64:
		return float64(x)
	case Dict:
		out := map[string]interface{}{}
		for k, val := range x {
			out[k] = val
		}
		return out
	case Args:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = val
		}
		return out
	case KwArgs:
		out := map[string]interface{}{}
		for k, val := range x {
			out[k] = val
		}
		return out
	default:
		return v
	}
}

func TestRoundTripAllVariants(t *testing.T) {
	cases := []Message{
		&Hello{Realm: "realm1", Details: Dict{"roles": map[string]interface{}{}}},
		&Welcome{Session: 123, Details: Dict{"agent": "test"}},
		&Abort{Details: Dict{}, Reason: "wamp.error.no_such_realm"},
		&Challenge{AuthMethod: "cryptosign", Extra: Dict{"challenge": "abcd"}},
		&Authenticate{Signature: "deadbeef", Extra: Dict{}},
		&Goodbye{Details: Dict{}, Reason: "wamp.close.normal"},
		&Error{RequestType: CodeCall, Request: 1, Details: Dict{}, URI: "wamp.error.no_such_procedure"},
		&Error{RequestType: CodeCall, Request: 1, Details: Dict{}, URI: "some.error", Args: Args{"bad"}, KwArgs: KwArgs{"why": "bad"}},
		&Publish{Request: 2, Options: Dict{}, Topic: "com.example.topic"},
		&Publish{Request: 2, Options: Dict{"acknowledge": true}, Topic: "com.example.topic", Args: Args{1, 2}, KwArgs: KwArgs{"a": 1}},
		&Published{Request: 2, Publication: 99},
		&Subscribe{Request: 3, Options: Dict{}, Topic: "com.example.topic"},
		&Subscribed{Request: 3, Subscription: 55},
		&Unsubscribe{Request: 4, Subscription: 55},
		&Unsubscribed{Request: 4},
		&Event{Subscription: 55, Publication: 99, Details: Dict{}},
		&Event{Subscription: 55, Publication: 99, Details: Dict{}, Args: Args{"x"}, KwArgs: KwArgs{"y": 1}},
		&Call{Request: 5, Options: Dict{}, Procedure: "com.example.proc"},
		&Call{Request: 5, Options: Dict{}, Procedure: "com.example.proc", Args: Args{1}, KwArgs: KwArgs{"k": "v"}},
		&Result{Request: 5, Details: Dict{}},
		&Register{Request: 6, Options: Dict{}, Procedure: "com.example.proc"},
		&Registered{Request: 6, Registration: 77},
		&Unregister{Request: 7, Registration: 77},
		&Unregistered{Request: 7},
		&Invocation{Request: 8, Registration: 77, Details: Dict{}},
		&Yield{Request: 8, Options: Dict{}},
	}

	for _, m := range cases {
		m := m
		t.Run(m.Code().String(), func(t *testing.T) {
			got := roundTrip(t, m)
			if got.Code() != m.Code() {
				t.Fatalf("code mismatch: got %v want %v", got.Code(), m.Code())
			}
			if !reflect.DeepEqual(normalizeForCompare(got), normalizeForCompare(m)) {
				t.Fatalf("round trip mismatch:\ngot  %#v\nwant %#v", got, m)
			}
		})
	}
}

// normalizeForCompare fills in the nil->empty defaults Decode/Encode always
// apply, so a message built with nil Details compares equal to its
// round-tripped counterpart which always has a non-nil Dict.
func normalizeForCompare(m Message) Message {
	switch v := m.(type) {
	case *Hello:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		return &cp
	case *Welcome:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		return &cp
	case *Abort:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		return &cp
	case *Challenge:
		cp := *v
		cp.Extra = nonNilDict(cp.Extra)
		return &cp
	case *Authenticate:
		cp := *v
		cp.Extra = nonNilDict(cp.Extra)
		return &cp
	case *Goodbye:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		return &cp
	case *Error:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Publish:
		cp := *v
		cp.Options = nonNilDict(cp.Options)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Subscribe:
		cp := *v
		cp.Options = nonNilDict(cp.Options)
		return &cp
	case *Event:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Call:
		cp := *v
		cp.Options = nonNilDict(cp.Options)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Result:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Register:
		cp := *v
		cp.Options = nonNilDict(cp.Options)
		return &cp
	case *Invocation:
		cp := *v
		cp.Details = nonNilDict(cp.Details)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	case *Yield:
		cp := *v
		cp.Options = nonNilDict(cp.Options)
		cp.Args, cp.KwArgs = nonNilTail(cp.Args, cp.KwArgs)
		return &cp
	default:
		return m
	}
}

func nonNilDict(d Dict) Dict {
	if d == nil {
		return Dict{}
	}
	return d
}

func nonNilTail(a Args, k KwArgs) (Args, KwArgs) {
	if k == nil {
		return a, nil
	}
	if a == nil {
		a = Args{}
	}
	return a, k
}

func TestRequestID(t *testing.T) {
	cases := []struct {
		m     Message
		wantID ID
		wantOK bool
	}{
		{&Error{Request: 7}, 7, true},
		{&Published{Request: 8}, 8, true},
		{&Subscribed{Request: 9}, 9, true},
		{&Result{Request: 10}, 10, true},
		{&Invocation{Request: 11}, 11, true},
		{&Event{Subscription: 1, Publication: 2}, 0, false},
		{&Goodbye{}, 0, false},
		{&Abort{}, 0, false},
		{&Challenge{}, 0, false},
	}
	for _, c := range cases {
		got, ok := RequestID(c.m)
		if ok != c.wantOK || got != c.wantID {
			t.Errorf("RequestID(%T) = (%v, %v), want (%v, %v)", c.m, got, ok, c.wantID, c.wantOK)
		}
	}
}

func TestCodeString(t *testing.T) {
	if CodeHello.String() != "HELLO" {
		t.Errorf("CodeHello.String() = %q, want HELLO", CodeHello.String())
	}
	if got := Code(999).String(); got != "Code(999)" {
		t.Errorf("Code(999).String() = %q, want Code(999)", got)
	}
}

func TestDecodeEmptyTuple(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected error decoding empty tuple")
	}
}

func TestDecodeUnknownCode(t *testing.T) {
	if _, err := Decode([]interface{}{float64(9999)}); err == nil {
		t.Fatal("expected error decoding unknown code")
	}
}

func TestDecodeTruncatedTuple(t *testing.T) {
	if _, err := Decode([]interface{}{float64(CodeHello), "realm1"}); err == nil {
		t.Fatal("expected error decoding truncated HELLO tuple")
	}
}
