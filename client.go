package wamp

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"fmt"
	"net/url"

	"github.com/elast0ny/wamp-async/auth"
	"github.com/elast0ny/wamp-async/internal/engine"
	"github.com/elast0ny/wamp-async/message"
	"github.com/elast0ny/wamp-async/serializer"
	"github.com/elast0ny/wamp-async/transport"
)

// Client is a concurrency-safe handle to one WAMP session: one
// transport, one negotiated codec, one session engine. Every method may
// be called from any goroutine.
type Client struct {
	cfg    ConfigSnapshot
	engine *engine.Engine
}

// Dial connects to uri and starts a Client's session engine over it,
// choosing the transport from uri's scheme: "ws" and "wss" dial
// WebSocket (optionally TLS), "tcp" and "tcps" dial the raw-socket
// transport (optionally TLS). A "tcp"/"tcps" uri with no port is a
// configuration error; "ws"/"wss" fall back to the scheme's well-known
// port the same way url.Parse and the HTTP client already do.
func Dial(ctx context.Context, uri string, cfg ConfigSnapshot) (*Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("wamp: dial: parsing uri %q: %w", uri, err)
	}

	switch u.Scheme {
	case "ws":
		return DialWebSocket(ctx, uri, cfg)
	case "wss":
		tlsCfg := &tls.Config{InsecureSkipVerify: cfg.tlsInsecureSkipVerify}
		return DialWebSocketTLS(ctx, uri, tlsCfg, cfg)
	case "tcp":
		if u.Port() == "" {
			return nil, fmt.Errorf("wamp: dial: no port specified for tcp uri %q", uri)
		}
		return DialRawSocket(u.Host, cfg)
	case "tcps":
		if u.Port() == "" {
			return nil, fmt.Errorf("wamp: dial: no port specified for tcps uri %q", uri)
		}
		tlsCfg := &tls.Config{InsecureSkipVerify: cfg.tlsInsecureSkipVerify}
		return DialRawSocketTLS(u.Host, tlsCfg, cfg)
	default:
		return nil, fmt.Errorf("wamp: dial: unknown uri scheme %q", u.Scheme)
	}
}

// DialRawSocket opens a raw-socket connection to addr and starts a
// Client's session engine over it, trying each serializer in cfg's
// priority list in turn until the peer accepts one.
func DialRawSocket(addr string, cfg ConfigSnapshot) (*Client, error) {
	return dial(cfg, func(id serializer.ID) (transport.Transport, error) {
		return transport.DialRawSocket(addr, id, cfg.maxMessageSize)
	})
}

// DialRawSocketTLS opens a TLS raw-socket connection to addr.
func DialRawSocketTLS(addr string, tlsCfg *tls.Config, cfg ConfigSnapshot) (*Client, error) {
	return dial(cfg, func(id serializer.ID) (transport.Transport, error) {
		return transport.DialRawSocketTLS(addr, tlsCfg, id, cfg.maxMessageSize)
	})
}

// DialWebSocket opens a WebSocket connection to url.
func DialWebSocket(ctx context.Context, url string, cfg ConfigSnapshot) (*Client, error) {
	return dial(cfg, func(id serializer.ID) (transport.Transport, error) {
		return transport.DialWebSocket(ctx, url, id)
	})
}

// DialWebSocketTLS opens a wss:// WebSocket connection to url.
func DialWebSocketTLS(ctx context.Context, url string, tlsCfg *tls.Config, cfg ConfigSnapshot) (*Client, error) {
	return dial(cfg, func(id serializer.ID) (transport.Transport, error) {
		return transport.DialWebSocketTLS(ctx, url, tlsCfg, id)
	})
}

// dial tries each serializer in cfg's priority list in order, stopping
// at the first the peer accepts. A raw-socket peer rejecting a proposal
// specifically as "serializer unsupported" is the only retryable case,
// per spec.md's retry-next-serializer guidance; any other dial failure
// is returned immediately without trying the rest of the list.
func dial(cfg ConfigSnapshot, open func(id serializer.ID) (transport.Transport, error)) (*Client, error) {
	if len(cfg.serializerPriority) == 0 {
		return nil, fmt.Errorf("wamp: dial: config has no serializer priority")
	}

	var lastErr error
	for _, id := range cfg.serializerPriority {
		t, err := open(id)
		if err != nil {
			lastErr = err
			if rejected, ok := err.(*transport.HandshakeRejectedError); ok && rejected.SerializerUnsupported() {
				continue
			}
			return nil, err
		}
		codec, err := serializer.New(id)
		if err != nil {
			t.Close()
			return nil, err
		}
		return newClient(cfg, t, codec), nil
	}
	return nil, fmt.Errorf("wamp: dial: no serializer in priority list was accepted: %w", lastErr)
}

func newClient(cfg ConfigSnapshot, t transport.Transport, codec serializer.Serializer) *Client {
	e := engine.New(cfg.engineConfig(), t, codec)
	go e.Run()
	return &Client{cfg: cfg, engine: e}
}

// Status reports the client's connectivity transitions. The channel is
// closed once the engine has fully terminated.
func (c *Client) Status() <-chan engine.StatusUpdate { return c.engine.Status() }

// Invocation is one unit of RPC work delivered through Work, for a
// Registered procedure. Run must be called exactly once per Invocation.
type Invocation = engine.Invocation

// Work returns the channel of incoming RPC invocations for procedures
// this client has Registered, or nil if RoleCallee is disabled.
func (c *Client) Work() <-chan *Invocation { return c.engine.Work() }

// Event is one message delivered to a subscription's event channel.
type Event = engine.Event

// JoinOption configures a Join call.
type JoinOption func(*joinParams)

type joinParams struct {
	authID           string
	authExtra        message.Dict
	authMethods      []string
	challengeHandler engine.ChallengeHandler
}

// WithAuthID sets the authid field offered in HELLO.
func WithAuthID(authID string) JoinOption {
	return func(p *joinParams) { p.authID = authID }
}

// WithAuthExtra sets the authextra field offered in HELLO.
func WithAuthExtra(extra message.Dict) JoinOption {
	return func(p *joinParams) { p.authExtra = extra }
}

// WithChallengeHandler enables an authentication method and the
// handler that answers its CHALLENGE.
func WithChallengeHandler(authMethod string, handler engine.ChallengeHandler) JoinOption {
	return func(p *joinParams) {
		p.authMethods = append(p.authMethods, authMethod)
		p.challengeHandler = handler
	}
}

// WithCryptosign enables the cryptosign authentication method, signing
// CHALLENGE with secretKey and offering its public key as authextra.pubkey.
func WithCryptosign(secretKey ed25519.PrivateKey) JoinOption {
	signer := auth.CryptosignHandler(secretKey)
	return func(p *joinParams) {
		p.authMethods = append(p.authMethods, "cryptosign")
		if p.authExtra == nil {
			p.authExtra = message.Dict{}
		}
		p.authExtra["pubkey"] = auth.PublicKeyHex(secretKey)
		p.challengeHandler = func(authMethod string, extra message.Dict) (string, message.Dict, error) {
			sig, err := signer(authMethod, extra)
			if err != nil {
				return "", nil, err
			}
			return sig, message.Dict{}, nil
		}
	}
}

// Join sends HELLO for realm and blocks until WELCOME, ABORT, or ctx is
// canceled.
func (c *Client) Join(ctx context.Context, realm message.URI, opts ...JoinOption) (engine.JoinReply, error) {
	var p joinParams
	for _, opt := range opts {
		opt(&p)
	}
	return c.engine.Join(ctx, realm, p.authMethods, p.authID, p.authExtra, p.challengeHandler)
}

// Leave sends GOODBYE and returns once it has been written to the
// transport.
func (c *Client) Leave(ctx context.Context) error {
	return c.engine.Leave(ctx)
}

// Subscribe sends SUBSCRIBE for topic and blocks until SUBSCRIBED or
// ERROR. topic must satisfy WAMP's strict URI rules unless options sets
// "match" to "wildcard", in which case it is validated with the relaxed
// wildcard rule instead.
func (c *Client) Subscribe(ctx context.Context, topic message.URI, options message.Dict) (engine.SubscribeReply, error) {
	if err := validateTopicURI(topic, options); err != nil {
		return engine.SubscribeReply{}, err
	}
	return c.engine.Subscribe(ctx, topic, options)
}

// Unsubscribe sends UNSUBSCRIBE for subscription and blocks until
// UNSUBSCRIBED or ERROR.
func (c *Client) Unsubscribe(ctx context.Context, subscription message.ID) error {
	return c.engine.Unsubscribe(ctx, subscription)
}

// Publish sends PUBLISH to topic. If acknowledge is false it returns as
// soon as the frame is written; otherwise it blocks until PUBLISHED or
// ERROR.
func (c *Client) Publish(ctx context.Context, topic message.URI, options message.Dict, args message.Args, kwargs message.KwArgs, acknowledge bool) (engine.PublishReply, error) {
	if err := message.ValidateURI(topic); err != nil {
		return engine.PublishReply{}, err
	}
	return c.engine.Publish(ctx, topic, options, args, kwargs, acknowledge)
}

// Register sends REGISTER for procedure and blocks until REGISTERED or
// ERROR. handler runs off the event-loop goroutine, once per matching
// INVOCATION, when the application calls Run on the Invocation delivered
// through Work.
func (c *Client) Register(ctx context.Context, procedure message.URI, options message.Dict, handler engine.InvocationHandler) (engine.RegisterReply, error) {
	if err := message.ValidateURI(procedure); err != nil {
		return engine.RegisterReply{}, err
	}
	return c.engine.Register(ctx, procedure, options, handler)
}

// Unregister sends UNREGISTER for registration and blocks until
// UNREGISTERED or ERROR.
func (c *Client) Unregister(ctx context.Context, registration message.ID) error {
	return c.engine.Unregister(ctx, registration)
}

// Call sends CALL to procedure and blocks until RESULT or ERROR.
func (c *Client) Call(ctx context.Context, procedure message.URI, options message.Dict, args message.Args, kwargs message.KwArgs) (engine.CallReply, error) {
	if err := message.ValidateURI(procedure); err != nil {
		return engine.CallReply{}, err
	}
	return c.engine.Call(ctx, procedure, options, args, kwargs)
}

// Shutdown asks the session engine to terminate cleanly and blocks until
// it has. Safe to call more than once and concurrently with any other
// method.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.engine.Shutdown(ctx)
}

func validateTopicURI(topic message.URI, options message.Dict) error {
	if match, _ := options["match"].(string); match == "wildcard" {
		return message.ValidateWildcardURI(topic)
	}
	return message.ValidateURI(topic)
}
