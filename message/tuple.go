package message

import "fmt"

// Encode converts a Message into its positional wire tuple: the message
// code followed by its fields in WAMP field order. Trailing Args/KwArgs
// follow the WAMP rule: if kwargs is present, args is emitted too (empty
// if necessary); if neither is present, both are omitted.
func Encode(m Message) ([]interface{}, error) {
	switch v := m.(type) {
	case *Hello:
		return []interface{}{CodeHello, string(v.Realm), dictOrEmpty(v.Details)}, nil
	case *Welcome:
		return []interface{}{CodeWelcome, uint64(v.Session), dictOrEmpty(v.Details)}, nil
	case *Abort:
		return []interface{}{CodeAbort, dictOrEmpty(v.Details), string(v.Reason)}, nil
	case *Challenge:
		return []interface{}{CodeChallenge, v.AuthMethod, dictOrEmpty(v.Extra)}, nil
	case *Authenticate:
		return []interface{}{CodeAuthenticate, v.Signature, dictOrEmpty(v.Extra)}, nil
	case *Goodbye:
		return []interface{}{CodeGoodbye, dictOrEmpty(v.Details), string(v.Reason)}, nil
	case *Error:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeError, v.RequestType, uint64(v.Request), dictOrEmpty(v.Details), string(v.URI)}, tail...), nil
	case *Publish:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodePublish, uint64(v.Request), dictOrEmpty(v.Options), string(v.Topic)}, tail...), nil
	case *Published:
		return []interface{}{CodePublished, uint64(v.Request), uint64(v.Publication)}, nil
	case *Subscribe:
		return []interface{}{CodeSubscribe, uint64(v.Request), dictOrEmpty(v.Options), string(v.Topic)}, nil
	case *Subscribed:
		return []interface{}{CodeSubscribed, uint64(v.Request), uint64(v.Subscription)}, nil
	case *Unsubscribe:
		return []interface{}{CodeUnsubscribe, uint64(v.Request), uint64(v.Subscription)}, nil
	case *Unsubscribed:
		return []interface{}{CodeUnsubscribed, uint64(v.Request)}, nil
	case *Event:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeEvent, uint64(v.Subscription), uint64(v.Publication), dictOrEmpty(v.Details)}, tail...), nil
	case *Call:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeCall, uint64(v.Request), dictOrEmpty(v.Options), string(v.Procedure)}, tail...), nil
	case *Result:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeResult, uint64(v.Request), dictOrEmpty(v.Details)}, tail...), nil
	case *Register:
		return []interface{}{CodeRegister, uint64(v.Request), dictOrEmpty(v.Options), string(v.Procedure)}, nil
	case *Registered:
		return []interface{}{CodeRegistered, uint64(v.Request), uint64(v.Registration)}, nil
	case *Unregister:
		return []interface{}{CodeUnregister, uint64(v.Request), uint64(v.Registration)}, nil
	case *Unregistered:
		return []interface{}{CodeUnregistered, uint64(v.Request)}, nil
	case *Invocation:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeInvocation, uint64(v.Request), uint64(v.Registration), dictOrEmpty(v.Details)}, tail...), nil
	case *Yield:
		tail := trailing(v.Args, v.KwArgs)
		return append([]interface{}{CodeYield, uint64(v.Request), dictOrEmpty(v.Options)}, tail...), nil
	default:
		return nil, fmt.Errorf("message: unknown message type %T", m)
	}
}

// trailing implements the WAMP optional-args/kwargs emission rule: kwargs
// implies args (emitted empty if absent); neither present omits both.
func trailing(args Args, kwargs KwArgs) []interface{} {
	if kwargs == nil {
		if args == nil {
			return nil
		}
		return []interface{}{argsOrEmpty(args)}
	}
	return []interface{}{argsOrEmpty(args), kwargsOrEmpty(kwargs)}
}

func dictOrEmpty(d Dict) interface{} {
	if d == nil {
		return Dict{}
	}
	return d
}

func argsOrEmpty(a Args) interface{} {
	if a == nil {
		return Args{}
	}
	return a
}

func kwargsOrEmpty(k KwArgs) interface{} {
	if k == nil {
		return KwArgs{}
	}
	return k
}

// Decode rebuilds a typed Message from a decoded wire tuple. tuple[0] must
// be the numeric message code; any codec-native numeric representation
// (float64, int64, uint64) is accepted.
func Decode(tuple []interface{}) (Message, error) {
	if len(tuple) == 0 {
		return nil, fmt.Errorf("message: empty wire tuple")
	}
	code, err := asCode(tuple[0])
	if err != nil {
		return nil, err
	}

	switch code {
	case CodeHello:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		realm, err := asString(tuple[1])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Hello{Realm: URI(realm), Details: details}, nil

	case CodeWelcome:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		session, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Welcome{Session: session, Details: details}, nil

	case CodeAbort:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		details, err := asDict(tuple[1])
		if err != nil {
			return nil, err
		}
		reason, err := asString(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Abort{Details: details, Reason: URI(reason)}, nil

	case CodeChallenge:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		method, err := asString(tuple[1])
		if err != nil {
			return nil, err
		}
		extra, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Challenge{AuthMethod: method, Extra: extra}, nil

	case CodeAuthenticate:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		sig, err := asString(tuple[1])
		if err != nil {
			return nil, err
		}
		extra, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Authenticate{Signature: sig, Extra: extra}, nil

	case CodeGoodbye:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		details, err := asDict(tuple[1])
		if err != nil {
			return nil, err
		}
		reason, err := asString(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Goodbye{Details: details, Reason: URI(reason)}, nil

	case CodeError:
		if err := need(tuple, 5); err != nil {
			return nil, err
		}
		typ, err := asCode(tuple[1])
		if err != nil {
			return nil, err
		}
		req, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[3])
		if err != nil {
			return nil, err
		}
		errURI, err := asString(tuple[4])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 5)
		if err != nil {
			return nil, err
		}
		return &Error{RequestType: typ, Request: req, Details: details, URI: URI(errURI), Args: args, KwArgs: kwargs}, nil

	case CodePublish:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		options, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		topic, err := asString(tuple[3])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 4)
		if err != nil {
			return nil, err
		}
		return &Publish{Request: req, Options: options, Topic: URI(topic), Args: args, KwArgs: kwargs}, nil

	case CodePublished:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		pub, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Published{Request: req, Publication: pub}, nil

	case CodeSubscribe:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		options, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		topic, err := asString(tuple[3])
		if err != nil {
			return nil, err
		}
		return &Subscribe{Request: req, Options: options, Topic: URI(topic)}, nil

	case CodeSubscribed:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		sub, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Subscribed{Request: req, Subscription: sub}, nil

	case CodeUnsubscribe:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		sub, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Unsubscribe{Request: req, Subscription: sub}, nil

	case CodeUnsubscribed:
		if err := need(tuple, 2); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		return &Unsubscribed{Request: req}, nil

	case CodeEvent:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		sub, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		pub, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[3])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 4)
		if err != nil {
			return nil, err
		}
		return &Event{Subscription: sub, Publication: pub, Details: details, Args: args, KwArgs: kwargs}, nil

	case CodeCall:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		options, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		proc, err := asString(tuple[3])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 4)
		if err != nil {
			return nil, err
		}
		return &Call{Request: req, Options: options, Procedure: URI(proc), Args: args, KwArgs: kwargs}, nil

	case CodeResult:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 3)
		if err != nil {
			return nil, err
		}
		return &Result{Request: req, Details: details, Args: args, KwArgs: kwargs}, nil

	case CodeRegister:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		options, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		proc, err := asString(tuple[3])
		if err != nil {
			return nil, err
		}
		return &Register{Request: req, Options: options, Procedure: URI(proc)}, nil

	case CodeRegistered:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		reg, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Registered{Request: req, Registration: reg}, nil

	case CodeUnregister:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		reg, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		return &Unregister{Request: req, Registration: reg}, nil

	case CodeUnregistered:
		if err := need(tuple, 2); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		return &Unregistered{Request: req}, nil

	case CodeInvocation:
		if err := need(tuple, 4); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		reg, err := asID(tuple[2])
		if err != nil {
			return nil, err
		}
		details, err := asDict(tuple[3])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 4)
		if err != nil {
			return nil, err
		}
		return &Invocation{Request: req, Registration: reg, Details: details, Args: args, KwArgs: kwargs}, nil

	case CodeYield:
		if err := need(tuple, 3); err != nil {
			return nil, err
		}
		req, err := asID(tuple[1])
		if err != nil {
			return nil, err
		}
		options, err := asDict(tuple[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := optionalTail(tuple, 3)
		if err != nil {
			return nil, err
		}
		return &Yield{Request: req, Options: options, Args: args, KwArgs: kwargs}, nil

	default:
		return nil, fmt.Errorf("message: unrecognized message code %d", int64(code))
	}
}

func need(tuple []interface{}, n int) error {
	if len(tuple) < n {
		return fmt.Errorf("message: wire tuple too short: got %d fields, need at least %d", len(tuple), n)
	}
	return nil
}

// optionalTail decodes the trailing [args] / [args, kwargs] fields that may
// be partially or fully absent from position idx onward.
func optionalTail(tuple []interface{}, idx int) (Args, KwArgs, error) {
	var args Args
	var kwargs KwArgs
	if len(tuple) > idx {
		a, err := asArgs(tuple[idx])
		if err != nil {
			return nil, nil, err
		}
		args = a
	}
	if len(tuple) > idx+1 {
		k, err := asKwArgs(tuple[idx+1])
		if err != nil {
			return nil, nil, err
		}
		kwargs = k
	}
	return args, kwargs, nil
}
