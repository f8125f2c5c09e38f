package engine

import "github.com/elast0ny/wamp-async/serializer"

// Roles is a bitmask of the four WAMP client-side roles a session engine
// advertises and supports locally.
type Roles uint8

const (
	RoleCaller Roles = 1 << iota
	RoleCallee
	RolePublisher
	RoleSubscriber
)

// AllRoles enables every basic-profile client role.
const AllRoles = RoleCaller | RoleCallee | RolePublisher | RoleSubscriber

// Has reports whether role is set in r.
func (r Roles) Has(role Roles) bool { return r&role != 0 }

// DefaultAgent is the process-wide default WAMP agent string that
// DefaultConfig puts in Config.Agent. An empty Agent leaves the agent
// field out of HELLO.
const DefaultAgent = "wamp-async-go/1.0"

// Config is the immutable, connection-wide configuration an engine is
// constructed with. It does not change for the lifetime of the engine.
type Config struct {
	Roles                 Roles
	SerializerPriority    []serializer.ID
	Agent                 string
	MaxMessageSize        uint32
	TLSInsecureSkipVerify bool
	ExtraHeaders          map[string][]string
}

// DefaultConfig returns a Config with every role enabled, the default
// serializer priority [json, msgpack, cbor], and the default agent string.
func DefaultConfig() Config {
	return Config{
		Roles:              AllRoles,
		SerializerPriority: []serializer.ID{serializer.JSON, serializer.MsgPack, serializer.CBOR},
		Agent:              DefaultAgent,
	}
}
