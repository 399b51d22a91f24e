package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/TheusHen/schan/schan/crypto/digest"
	"github.com/TheusHen/schan/schan/crypto/keystream"
	"github.com/TheusHen/schan/schan/dh"
	"github.com/TheusHen/schan/schan/identity"
	"github.com/TheusHen/schan/schan/transport"
)

var (
	ErrIntegrity         = errors.New("channel: message digest mismatch")
	ErrUnknownPeerKey    = errors.New("channel: no shared key for sender")
	ErrNoPendingExchange = errors.New("channel: public value without a pending request")
)

// State is the agreement state with one peer.
type State int

const (
	NoKey State = iota
	KeyRequested
	KeyEstablished
)

func (s State) String() string {
	switch s {
	case NoKey:
		return "NO_KEY"
	case KeyRequested:
		return "KEY_REQUESTED"
	case KeyEstablished:
		return "KEY_ESTABLISHED"
	default:
		return "UNKNOWN"
	}
}

// Communicator is one participant of the secure channel. It is safe for
// concurrent use. A key change with a peer waits for sends to that peer
// already in flight, and the replaced key keeps opening messages sealed
// before the change.
type Communicator struct {
	id      identity.ID
	tr      transport.Transport
	params  dh.Params
	bits    int
	rand    io.Reader
	digest  digest.Algorithm
	nonces  keystream.NonceSource
	log     zerolog.Logger
	handler Handler

	keys   *keyTable
	flight singleflight.Group

	mu        sync.Mutex
	pending   map[identity.ID]*dh.Exchange // responder side, one per requester
	requested map[identity.ID]int          // agreements in flight as initiator
	gates     map[identity.ID]*gate
}

var _ transport.Endpoint = (*Communicator)(nil)

// New creates a Communicator that reaches peers through tr. The caller
// registers it with the transport under ID().
func New(tr transport.Transport, opts ...Option) *Communicator {
	c := &Communicator{
		id:        identity.New(),
		tr:        tr,
		params:    dh.DefaultParams(),
		bits:      DefaultPrivateBits,
		digest:    digest.Default,
		nonces:    keystream.TimeNonce{},
		log:       zerolog.Nop(),
		keys:      newKeyTable(),
		pending:   make(map[identity.ID]*dh.Exchange),
		requested: make(map[identity.ID]int),
		gates:     make(map[identity.ID]*gate),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("self", c.id.Short()).Logger()
	return c
}

func (c *Communicator) ID() identity.ID { return c.id }

// SharedKey returns the secret established with peer.
func (c *Communicator) SharedKey(peer identity.ID) (*big.Int, bool) {
	return c.keys.get(peer)
}

// Peers lists every peer with an established key.
func (c *Communicator) Peers() []identity.ID { return c.keys.peers() }

// KeyCount returns the number of established keys.
func (c *Communicator) KeyCount() int { return c.keys.len() }

// State reports the agreement state with peer.
func (c *Communicator) State(peer identity.ID) State {
	if _, ok := c.keys.get(peer); ok {
		return KeyEstablished
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requested[peer] > 0 {
		return KeyRequested
	}
	return NoKey
}

func (c *Communicator) gate(peer identity.ID) *gate {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gates[peer]
	if !ok {
		g = newGate()
		c.gates[peer] = g
	}
	return g
}

func (c *Communicator) markRequested(peer identity.ID, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requested[peer] += delta
	if c.requested[peer] <= 0 {
		delete(c.requested, peer)
	}
}

// Establish runs key agreement with peer, replacing any existing key on
// both sides. Concurrent calls for the same peer share one agreement.
func (c *Communicator) Establish(ctx context.Context, peer identity.ID) (*big.Int, error) {
	return c.establish(ctx, peer, false)
}

func (c *Communicator) establish(ctx context.Context, peer identity.ID, reuse bool) (*big.Int, error) {
	v, err, _ := c.flight.Do(peer.String(), func() (any, error) {
		if reuse {
			if k, ok := c.keys.get(peer); ok {
				return k, nil
			}
		}
		g := c.gate(peer)
		g.beginAgree()
		defer g.endAgree()
		return c.agree(ctx, peer)
	})
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// agree generates a, requests B, stores B^a mod p and delivers A. The key is
// stored before delivery so that messages the peer seals right after
// installing it already open here.
func (c *Communicator) agree(ctx context.Context, peer identity.ID) (*big.Int, error) {
	c.markRequested(peer, 1)
	defer c.markRequested(peer, -1)

	log := c.log.With().Str("peer", peer.Short()).Logger()
	log.Debug().Int("bits", c.bits).Msg("key agreement started")

	ex, err := dh.NewExchange(c.params, c.rand, c.bits)
	if err != nil {
		return nil, err
	}
	remote, err := c.tr.RequestPublicKey(ctx, c.id, peer, c.bits)
	if err != nil {
		return nil, fmt.Errorf("request public key: %w", err)
	}
	shared, err := ex.Shared(remote)
	if err != nil {
		return nil, err
	}
	c.keys.put(peer, shared)
	if err := c.tr.SendPublicKey(ctx, c.id, peer, ex.Public()); err != nil {
		c.keys.revert(peer, shared)
		return nil, fmt.Errorf("send public key: %w", err)
	}

	log.Info().Msg("shared key established")
	return shared, nil
}

// Send encrypts message for peer, agreeing a key first if none exists, and
// delivers it with the plaintext digest. Errors raised by the receiver,
// including integrity failures, are returned.
func (c *Communicator) Send(ctx context.Context, peer identity.ID, message string) error {
	if _, ok := c.keys.get(peer); !ok {
		if _, err := c.establish(ctx, peer, true); err != nil {
			return err
		}
	}

	g := c.gate(peer)
	g.beginSend()
	defer g.endSend()

	secret, ok := c.keys.get(peer)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeerKey, peer)
	}
	env, err := keystream.Seal(dh.KeyBytes(secret), []byte(message), c.nonces)
	if err != nil {
		return err
	}
	sum, err := c.digest.Sum([]byte(message))
	if err != nil {
		return err
	}

	msg := transport.Message{Envelope: env.Encode(), Digest: sum}
	if err := c.tr.SendEncryptedMessage(ctx, c.id, peer, msg); err != nil {
		return err
	}
	c.log.Debug().Str("peer", peer.Short()).Int("bytes", len(msg.Envelope)).Msg("message sent")
	return nil
}

// Open decrypts a message from sender and verifies its digest. A message
// that fails under the current key is retried under the key it replaced.
func (c *Communicator) Open(sender identity.ID, msg transport.Message) (string, error) {
	log := c.log.With().Str("peer", sender.Short()).Logger()

	secret, ok := c.keys.get(sender)
	if !ok {
		log.Warn().Msg("message from peer without shared key")
		return "", fmt.Errorf("%w: %s", ErrUnknownPeerKey, sender)
	}
	env, err := keystream.DecodeEnvelope(msg.Envelope)
	if err != nil {
		return "", err
	}
	text, err := c.open(secret, env, msg.Digest)
	if errors.Is(err, ErrIntegrity) {
		if prev, ok := c.keys.previous(sender); ok {
			if text, perr := c.open(prev, env, msg.Digest); perr == nil {
				log.Debug().Msg("message opened with previous key")
				return text, nil
			}
		}
		log.Warn().Err(err).Msg("integrity check failed")
	}
	return text, err
}

func (c *Communicator) open(secret *big.Int, env keystream.Envelope, want []byte) (string, error) {
	plain, err := keystream.Open(dh.KeyBytes(secret), env)
	if errors.Is(err, keystream.ErrNoTerminator) || errors.Is(err, keystream.ErrBadPadding) {
		return "", fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	if err != nil {
		return "", err
	}
	sum, err := c.digest.Sum(plain)
	if err != nil {
		return "", err
	}
	if !digest.Equal(sum, want) {
		return "", ErrIntegrity
	}
	return string(plain), nil
}

// ReceivePublicKeyRequest binds a fresh exchange to the requester and
// returns its public value. A newer request from the same peer replaces an
// unconsumed one.
func (c *Communicator) ReceivePublicKeyRequest(ctx context.Context, from identity.ID, bits int) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bits > MaxPrivateBits {
		return nil, fmt.Errorf("%w: %d exceeds %d", dh.ErrInvalidBits, bits, MaxPrivateBits)
	}
	ex, err := dh.NewExchange(c.params, c.rand, bits)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.pending[from] = ex
	c.mu.Unlock()
	return ex.Public(), nil
}

// ReceivePublicKey consumes the pending exchange for from and stores the
// shared secret once no send to from is in flight.
func (c *Communicator) ReceivePublicKey(ctx context.Context, from identity.ID, public *big.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	ex, ok := c.pending[from]
	delete(c.pending, from)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPendingExchange, from)
	}

	shared, err := ex.Shared(public)
	if err != nil {
		return err
	}
	c.gate(from).install(func() { c.keys.put(from, shared) })
	c.log.Info().Str("peer", from.Short()).Msg("shared key established by peer")
	return nil
}

// ReceiveEncryptedMessage opens msg and hands it to the handler.
func (c *Communicator) ReceiveEncryptedMessage(ctx context.Context, from identity.ID, msg transport.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := c.Open(from, msg)
	if err != nil {
		return err
	}
	c.log.Info().Str("peer", from.Short()).Int("len", len(text)).Msg("message received and authenticated")
	if c.handler != nil {
		c.handler(Received{From: from, Text: text})
	}
	return nil
}
