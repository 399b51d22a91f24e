// Package memory provides an in-process Transport. It is useful for tests,
// examples and simulations where participants live in one process.
package memory

import (
	"context"
	"math/big"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TheusHen/schan/schan/identity"
	"github.com/TheusHen/schan/schan/transport"
)

// Interceptor observes or rewrites a message before delivery.
type Interceptor func(from, to identity.ID, msg *transport.Message)

// Hub routes calls between registered endpoints.
type Hub struct {
	mu           sync.RWMutex
	peers        map[identity.ID]transport.Endpoint
	interceptors []Interceptor
	log          zerolog.Logger
}

var _ transport.Transport = (*Hub)(nil)

type Option func(*Hub)

// WithLogger sets the hub's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// WithInterceptor installs fn on every delivered encrypted message.
func WithInterceptor(fn Interceptor) Option {
	return func(h *Hub) { h.interceptors = append(h.interceptors, fn) }
}

func New(opts ...Option) *Hub {
	h := &Hub{
		peers: map[identity.ID]transport.Endpoint{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register makes ep reachable as id.
func (h *Hub) Register(id identity.ID, ep transport.Endpoint) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[id]; ok {
		return transport.ErrDuplicate
	}
	h.peers[id] = ep
	return nil
}

func (h *Hub) Unregister(id identity.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, id)
}

// Intercept adds fn after construction.
func (h *Hub) Intercept(fn Interceptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.interceptors = append(h.interceptors, fn)
}

// Len returns the number of registered endpoints.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) lookup(ctx context.Context, to identity.ID) (transport.Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	ep, ok := h.peers[to]
	if !ok {
		return nil, transport.ErrUnknownPeer
	}
	return ep, nil
}

func (h *Hub) RequestPublicKey(ctx context.Context, from, to identity.ID, bits int) (*big.Int, error) {
	ep, err := h.lookup(ctx, to)
	if err != nil {
		return nil, err
	}
	h.log.Debug().Str("from", from.Short()).Str("to", to.Short()).Int("bits", bits).Msg("public key request")
	pub, err := ep.ReceivePublicKeyRequest(ctx, from, bits)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, transport.ErrNoPublicKey
	}
	return new(big.Int).Set(pub), nil
}

func (h *Hub) SendPublicKey(ctx context.Context, from, to identity.ID, public *big.Int) error {
	if public == nil {
		return transport.ErrNoPublicKey
	}
	ep, err := h.lookup(ctx, to)
	if err != nil {
		return err
	}
	h.log.Debug().Str("from", from.Short()).Str("to", to.Short()).Msg("public key delivery")
	return ep.ReceivePublicKey(ctx, from, new(big.Int).Set(public))
}

func (h *Hub) SendEncryptedMessage(ctx context.Context, from, to identity.ID, msg transport.Message) error {
	ep, err := h.lookup(ctx, to)
	if err != nil {
		return err
	}

	msg = msg.Clone()
	h.mu.RLock()
	interceptors := append([]Interceptor(nil), h.interceptors...)
	h.mu.RUnlock()
	for _, fn := range interceptors {
		fn(from, to, &msg)
	}

	h.log.Debug().Str("from", from.Short()).Str("to", to.Short()).Int("bytes", len(msg.Envelope)).Msg("encrypted message")
	return ep.ReceiveEncryptedMessage(ctx, from, msg)
}
