// Package message implements the WAMP v2 basic-profile message taxonomy: a
// tagged variant over the wire message kinds, each encoding as a positional
// tuple whose first element is a fixed small integer message code.
package message

import "fmt"

// Code is the numeric WAMP message type tag that leads every wire tuple.
type Code int64

// Message codes used by the basic profile. Values are fixed by the WAMP
// wire protocol and must not change.
const (
	CodeHello        Code = 1
	CodeWelcome      Code = 2
	CodeAbort        Code = 3
	CodeChallenge    Code = 4
	CodeAuthenticate Code = 5
	CodeGoodbye      Code = 6
	CodeError        Code = 8
	CodePublish      Code = 16
	CodePublished    Code = 17
	CodeSubscribe    Code = 32
	CodeSubscribed   Code = 33
	CodeUnsubscribe  Code = 34
	CodeUnsubscribed Code = 35
	CodeEvent        Code = 36
	CodeCall         Code = 48
	CodeResult       Code = 50
	CodeRegister     Code = 64
	CodeRegistered   Code = 65
	CodeUnregister   Code = 66
	CodeUnregistered Code = 67
	CodeInvocation   Code = 68
	CodeYield        Code = 70
)

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int64(c))
}

var codeNames = map[Code]string{
	CodeHello:        "HELLO",
	CodeWelcome:      "WELCOME",
	CodeAbort:        "ABORT",
	CodeChallenge:    "CHALLENGE",
	CodeAuthenticate: "AUTHENTICATE",
	CodeGoodbye:      "GOODBYE",
	CodeError:        "ERROR",
	CodePublish:      "PUBLISH",
	CodePublished:    "PUBLISHED",
	CodeSubscribe:    "SUBSCRIBE",
	CodeSubscribed:   "SUBSCRIBED",
	CodeUnsubscribe:  "UNSUBSCRIBE",
	CodeUnsubscribed: "UNSUBSCRIBED",
	CodeEvent:        "EVENT",
	CodeCall:         "CALL",
	CodeResult:       "RESULT",
	CodeRegister:     "REGISTER",
	CodeRegistered:   "REGISTERED",
	CodeUnregister:   "UNREGISTER",
	CodeUnregistered: "UNREGISTERED",
	CodeInvocation:   "INVOCATION",
	CodeYield:        "YIELD",
}

// ID is a WAMP identifier: session, request, subscription, registration,
// publication, or invocation ID. Valid values are drawn from [1, 2^53].
type ID uint64

// URI is a dot-separated WAMP topic/procedure/error identifier.
type URI string

// Args is the ordered positional payload of a call, event, or return value.
type Args []interface{}

// KwArgs is the keyed payload of a call, event, or return value.
type KwArgs map[string]interface{}

// Dict is a protocol-level options/details map.
type Dict map[string]interface{}

// Message is implemented by every WAMP basic-profile message variant.
type Message interface {
	// Code returns the fixed wire message code for this variant.
	Code() Code
}

// RequestID reports the request ID correlating this message to a pending
// client request, and whether this message kind carries one at all.
// GOODBYE, ABORT, CHALLENGE, and EVENT do not carry a request ID.
func RequestID(m Message) (ID, bool) {
	switch v := m.(type) {
	case *Error:
		return v.Request, true
	case *Published:
		return v.Request, true
	case *Subscribed:
		return v.Request, true
	case *Unsubscribed:
		return v.Request, true
	case *Registered:
		return v.Request, true
	case *Unregistered:
		return v.Request, true
	case *Result:
		return v.Request, true
	case *Invocation:
		return v.Request, true
	}
	return 0, false
}

// Hello is sent by a client to initiate a session on a realm.
type Hello struct {
	Realm   URI
	Details Dict
}

func (*Hello) Code() Code { return CodeHello }

// Welcome is sent by the router to accept a client; the session is open.
type Welcome struct {
	Session ID
	Details Dict
}

func (*Welcome) Code() Code { return CodeWelcome }

// Abort is sent by either peer to abort session opening.
type Abort struct {
	Details Dict
	Reason  URI
}

func (*Abort) Code() Code { return CodeAbort }

// Challenge is sent by the router during authentication.
type Challenge struct {
	AuthMethod string
	Extra      Dict
}

func (*Challenge) Code() Code { return CodeChallenge }

// Authenticate is sent by the client in response to a Challenge.
type Authenticate struct {
	Signature string
	Extra     Dict
}

func (*Authenticate) Code() Code { return CodeAuthenticate }

// Goodbye is sent by either peer to close an open session.
type Goodbye struct {
	Details Dict
	Reason  URI
}

func (*Goodbye) Code() Code { return CodeGoodbye }

// Error is sent in response to a failed request of the given RequestType.
type Error struct {
	RequestType Code
	Request     ID
	Details     Dict
	URI         URI
	Args        Args
	KwArgs      KwArgs
}

func (*Error) Code() Code { return CodeError }

// Publish is sent by a publisher to publish an event to a topic.
type Publish struct {
	Request ID
	Options Dict
	Topic   URI
	Args    Args
	KwArgs  KwArgs
}

func (*Publish) Code() Code { return CodePublish }

// Published acknowledges a Publish made with acknowledge=true.
type Published struct {
	Request     ID
	Publication ID
}

func (*Published) Code() Code { return CodePublished }

// Subscribe requests a subscription to a topic.
type Subscribe struct {
	Request ID
	Options Dict
	Topic   URI
}

func (*Subscribe) Code() Code { return CodeSubscribe }

// Subscribed acknowledges a Subscribe.
type Subscribed struct {
	Request      ID
	Subscription ID
}

func (*Subscribed) Code() Code { return CodeSubscribed }

// Unsubscribe requests cancellation of a subscription.
type Unsubscribe struct {
	Request      ID
	Subscription ID
}

func (*Unsubscribe) Code() Code { return CodeUnsubscribe }

// Unsubscribed acknowledges an Unsubscribe.
type Unsubscribed struct {
	Request ID
}

func (*Unsubscribed) Code() Code { return CodeUnsubscribed }

// Event is dispatched by the broker to a matching subscriber.
type Event struct {
	Subscription ID
	Publication  ID
	Details      Dict
	Args         Args
	KwArgs       KwArgs
}

func (*Event) Code() Code { return CodeEvent }

// Call invokes a remote procedure.
type Call struct {
	Request   ID
	Options   Dict
	Procedure URI
	Args      Args
	KwArgs    KwArgs
}

func (*Call) Code() Code { return CodeCall }

// Result carries the outcome of a successful Call.
type Result struct {
	Request ID
	Details Dict
	Args    Args
	KwArgs  KwArgs
}

func (*Result) Code() Code { return CodeResult }

// Register requests registration of a procedure with the dealer.
type Register struct {
	Request   ID
	Options   Dict
	Procedure URI
}

func (*Register) Code() Code { return CodeRegister }

// Registered acknowledges a Register.
type Registered struct {
	Request      ID
	Registration ID
}

func (*Registered) Code() Code { return CodeRegistered }

// Unregister requests cancellation of a registration.
type Unregister struct {
	Request      ID
	Registration ID
}

func (*Unregister) Code() Code { return CodeUnregister }

// Unregistered acknowledges an Unregister.
type Unregistered struct {
	Request ID
}

func (*Unregistered) Code() Code { return CodeUnregistered }

// Invocation is dispatched by the dealer to a registered callee.
type Invocation struct {
	Request      ID
	Registration ID
	Details      Dict
	Args         Args
	KwArgs       KwArgs
}

func (*Invocation) Code() Code { return CodeInvocation }

// Yield returns the outcome of an Invocation to the dealer.
type Yield struct {
	Request ID
	Options Dict
	Args    Args
	KwArgs  KwArgs
}

func (*Yield) Code() Code { return CodeYield }
