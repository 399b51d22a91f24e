package dh

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

var ErrInvalidBits = errors.New("dh: private exponent size must be positive")

// KeySize is the length of cipher key material derived from a shared secret.
const KeySize = 32

// Params is a public (generator, modulus) pair. Both parties must use the
// same Params for their shared secrets to agree.
type Params struct {
	G *big.Int
	P *big.Int
}

// DefaultParams returns the system-wide parameters: g = 2 and
// p = 2*(1416461893 + 10^500) + 1.
func DefaultParams() Params {
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(500), nil)
	p.Add(p, big.NewInt(1416461893))
	p.Lsh(p, 1)
	p.Add(p, one)
	return Params{G: big.NewInt(2), P: p}
}

// RandomBits returns a uniformly random integer of at most bits bits read
// from r. A nil r uses crypto/rand.
func RandomBits(r io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if extra := len(buf)*8 - bits; extra > 0 {
		buf[0] &= 0xff >> extra
	}
	return new(big.Int).SetBytes(buf), nil
}

// Exchange is one side of a single agreement. The private exponent lives
// only inside the Exchange and is not exported.
type Exchange struct {
	params  Params
	private *big.Int
	public  *big.Int
}

// NewExchange draws a bits-bit private exponent and computes g^x mod p.
func NewExchange(params Params, r io.Reader, bits int) (*Exchange, error) {
	x, err := RandomBits(r, bits)
	if err != nil {
		return nil, err
	}
	pub, err := PowMod(params.G, x, params.P)
	if err != nil {
		return nil, err
	}
	return &Exchange{params: params, private: x, public: pub}, nil
}

// Public returns the value to send to the peer.
func (e *Exchange) Public() *big.Int {
	return new(big.Int).Set(e.public)
}

// Shared computes peerPublic^x mod p.
func (e *Exchange) Shared(peerPublic *big.Int) (*big.Int, error) {
	if peerPublic == nil {
		return nil, errors.New("dh: missing peer public value")
	}
	return PowMod(peerPublic, e.private, e.params.P)
}

// KeyBytes maps a shared secret to cipher key material: the low 256 bits
// of the integer, big endian.
func KeyBytes(secret *big.Int) []byte {
	key := make([]byte, KeySize)
	b := secret.Bytes()
	if len(b) > KeySize {
		b = b[len(b)-KeySize:]
	}
	copy(key[KeySize-len(b):], b)
	return key
}
