package message

import "fmt"

// The three codec backends hand back different Go types for the same wire
// integer: encoding/json produces float64, cbor produces int64 or uint64
// depending on sign, and msgpack produces the sized integer type matching
// the wire encoding (int8 through uint64). These helpers normalize across
// all three so Decode never cares which codec produced the tuple.

func asCode(v interface{}) (Code, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, fmt.Errorf("message: message code: %w", err)
	}
	return Code(n), nil
}

func asID(v interface{}) (ID, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, fmt.Errorf("message: id field: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("message: id field: negative value %d", n)
	}
	return ID(n), nil
}

func asInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("message: expected a string, got %T", v)
	}
	return s, nil
}

// asDict normalizes a decoded map value to Dict. CBOR in particular may
// decode maps as map[interface{}]interface{}; this coerces keys to string.
func asDict(v interface{}) (Dict, error) {
	switch m := v.(type) {
	case nil:
		return Dict{}, nil
	case Dict:
		return m, nil
	case map[string]interface{}:
		return Dict(m), nil
	case map[interface{}]interface{}:
		return stringKeyMap(m)
	default:
		return nil, fmt.Errorf("message: expected a dict, got %T", v)
	}
}

func asArgs(v interface{}) (Args, error) {
	switch a := v.(type) {
	case nil:
		return Args{}, nil
	case Args:
		return a, nil
	case []interface{}:
		return Args(a), nil
	default:
		return nil, fmt.Errorf("message: expected an args list, got %T", v)
	}
}

func asKwArgs(v interface{}) (KwArgs, error) {
	switch m := v.(type) {
	case nil:
		return KwArgs{}, nil
	case KwArgs:
		return m, nil
	case map[string]interface{}:
		return KwArgs(m), nil
	case map[interface{}]interface{}:
		d, err := stringKeyMap(m)
		if err != nil {
			return nil, err
		}
		return KwArgs(d), nil
	default:
		return nil, fmt.Errorf("message: expected a kwargs map, got %T", v)
	}
}

func stringKeyMap(m map[interface{}]interface{}) (Dict, error) {
	out := make(Dict, len(m))
	for k, v := range m {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("message: map key %v (%T) is not a string", k, k)
		}
		out[ks] = v
	}
	return out, nil
}
