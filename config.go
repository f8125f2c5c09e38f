package wamp

import (
	"fmt"

	wampconfig "github.com/elast0ny/wamp-async/config"
	"github.com/elast0ny/wamp-async/internal/engine"
	"github.com/elast0ny/wamp-async/serializer"
)

// Roles is a bitmask of the four WAMP client-side roles a session
// advertises and supports locally.
type Roles = engine.Roles

const (
	RoleCaller     = engine.RoleCaller
	RoleCallee     = engine.RoleCallee
	RolePublisher  = engine.RolePublisher
	RoleSubscriber = engine.RoleSubscriber
	AllRoles       = engine.AllRoles
)

// DefaultAgent is the agent string advertised in HELLO when no agent is
// configured.
const DefaultAgent = engine.DefaultAgent

// DefaultMaxMessageSize is the raw-socket frame size ceiling applied when
// a ConfigSnapshot does not set one. The WebSocket transport does not
// apply a size ceiling.
const DefaultMaxMessageSize = 1 << 24

// ConfigSnapshot is the immutable, connection-wide configuration a client
// is constructed with. Build one with NewConfig; it does not change for
// the lifetime of the client it configures.
type ConfigSnapshot struct {
	roles                 Roles
	serializerPriority    []serializer.ID
	agent                 string
	maxMessageSize        uint32
	tlsInsecureSkipVerify bool
	extraHeaders          map[string][]string
}

// Option configures a ConfigSnapshot built by NewConfig.
type Option func(*ConfigSnapshot)

// WithRoles overrides the default (all four) client-side roles.
func WithRoles(r Roles) Option { return func(c *ConfigSnapshot) { c.roles = r } }

// WithSerializerPriority overrides the default codec negotiation order
// [JSON, MsgPack, CBOR].
func WithSerializerPriority(ids ...serializer.ID) Option {
	return func(c *ConfigSnapshot) { c.serializerPriority = ids }
}

// WithAgent overrides the agent string advertised in HELLO.
func WithAgent(agent string) Option { return func(c *ConfigSnapshot) { c.agent = agent } }

// WithMaxMessageSize overrides the raw-socket frame size ceiling. It has
// no effect on WebSocket connections.
func WithMaxMessageSize(n uint32) Option { return func(c *ConfigSnapshot) { c.maxMessageSize = n } }

// WithTLSInsecureSkipVerify disables TLS certificate verification on the
// wss and tcps connections opened by Dial. DialRawSocketTLS and
// DialWebSocketTLS ignore it and use the tls.Config passed to them.
// Intended for development and test fixtures only.
func WithTLSInsecureSkipVerify(skip bool) Option {
	return func(c *ConfigSnapshot) { c.tlsInsecureSkipVerify = skip }
}

// WithExtraHeaders records additional HTTP headers in the ConfigSnapshot.
// The WebSocket dials in this package do not send them; the upgrade
// request carries only the subprotocol offer.
func WithExtraHeaders(h map[string][]string) Option {
	return func(c *ConfigSnapshot) { c.extraHeaders = h }
}

// WithEnvironmentOverrides layers config.FromEnvironment()'s overrides on
// top of whatever defaults and options precede it in the NewConfig call.
func WithEnvironmentOverrides(ov wampconfig.Overrides) Option {
	return func(c *ConfigSnapshot) {
		if ov.Agent != "" {
			c.agent = ov.Agent
		}
		if ov.TLSInsecureSkipVerifySet {
			c.tlsInsecureSkipVerify = ov.TLSInsecureSkipVerify
		}
		if ov.MaxMessageSize != 0 {
			c.maxMessageSize = ov.MaxMessageSize
		}
	}
}

// WithDefaults layers a config.Defaults document (as loaded by
// config.LoadDefaultsYAML) on top of whatever precedes it.
func WithDefaults(d wampconfig.Defaults) Option {
	return func(c *ConfigSnapshot) {
		if d.Agent != "" {
			c.agent = d.Agent
		}
		c.tlsInsecureSkipVerify = d.TLSInsecureSkipVerify
		if d.MaxMessageSize != 0 {
			c.maxMessageSize = d.MaxMessageSize
		}
	}
}

// NewConfig builds a ConfigSnapshot: defaults are applied first, then
// opts are layered on top in order, then validate mirrors the teacher's
// required-field checks.
func NewConfig(opts ...Option) (ConfigSnapshot, error) {
	c := ConfigSnapshot{
		roles:              AllRoles,
		serializerPriority: []serializer.ID{serializer.JSON, serializer.MsgPack, serializer.CBOR},
		agent:              DefaultAgent,
		maxMessageSize:     DefaultMaxMessageSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.maxMessageSize == 0 {
		// 0 = default, per ConfigSnapshot's documented field meaning; an
		// explicit WithMaxMessageSize(0) is the sanctioned way to ask for it.
		c.maxMessageSize = DefaultMaxMessageSize
	}
	if err := c.validate(); err != nil {
		return ConfigSnapshot{}, err
	}
	return c, nil
}

func (c ConfigSnapshot) validate() error {
	if c.roles == 0 {
		return fmt.Errorf("wamp: config: at least one role must be enabled")
	}
	if len(c.serializerPriority) == 0 {
		return fmt.Errorf("wamp: config: serializer priority must not be empty")
	}
	return nil
}

func (c ConfigSnapshot) engineConfig() engine.Config {
	return engine.Config{
		Roles:                 c.roles,
		SerializerPriority:    c.serializerPriority,
		Agent:                 c.agent,
		MaxMessageSize:        c.maxMessageSize,
		TLSInsecureSkipVerify: c.tlsInsecureSkipVerify,
		ExtraHeaders:          c.extraHeaders,
	}
}
