package channel

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/TheusHen/schan/schan/crypto/digest"
	"github.com/TheusHen/schan/schan/crypto/keystream"
	"github.com/TheusHen/schan/schan/dh"
	"github.com/TheusHen/schan/schan/identity"
)

// DefaultPrivateBits is the default private exponent size.
const DefaultPrivateBits = 256

// MaxPrivateBits bounds the exponent size a peer may ask this side for.
const MaxPrivateBits = 4096

// Received is a message that passed the integrity check.
type Received struct {
	From identity.ID
	Text string
}

// Handler is called for every accepted message.
type Handler func(Received)

type Option func(*Communicator)

// WithID sets the participant id instead of a random one.
func WithID(id identity.ID) Option {
	return func(c *Communicator) { c.id = id }
}

// WithParams overrides the (generator, modulus) pair. Peers must agree on it.
func WithParams(p dh.Params) Option {
	return func(c *Communicator) { c.params = p }
}

// WithPrivateBits sets the size of private exponents this side requests.
func WithPrivateBits(bits int) Option {
	return func(c *Communicator) { c.bits = bits }
}

// WithRandom sets the source of private exponent bits.
func WithRandom(r io.Reader) Option {
	return func(c *Communicator) { c.rand = r }
}

// WithDigest selects the integrity hash. Peers must agree on it.
func WithDigest(a digest.Algorithm) Option {
	return func(c *Communicator) { c.digest = a }
}

// WithNonceSource sets where keystream nonces come from.
func WithNonceSource(src keystream.NonceSource) Option {
	return func(c *Communicator) { c.nonces = src }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Communicator) { c.log = l }
}

// WithHandler sets the callback for accepted messages.
func WithHandler(h Handler) Option {
	return func(c *Communicator) { c.handler = h }
}
