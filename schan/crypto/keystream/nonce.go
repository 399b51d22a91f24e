package keystream

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync/atomic"
	"time"

	"github.com/TheusHen/schan/schan/crypto/block"
)

// Nonce is the 16-byte big-endian starting value of the block counter.
type Nonce [block.BlockSize]byte

// NonceFromUint64 returns n as a 16-byte big-endian nonce.
func NonceFromUint64(n uint64) Nonce {
	var out Nonce
	binary.BigEndian.PutUint64(out[8:], n)
	return out
}

// counterBlock returns nonce XOR i.
func (n Nonce) counterBlock(i uint64) [block.BlockSize]byte {
	out := [block.BlockSize]byte(n)
	low := binary.BigEndian.Uint64(out[8:]) ^ i
	binary.BigEndian.PutUint64(out[8:], low)
	return out
}

// NonceSource produces the nonce for each Seal call.
type NonceSource interface {
	Next() (Nonce, error)
}

// TimeNonce derives the nonce from wall-clock seconds times two. Two seals
// within the same second reuse a nonce; use CounterNonce where that matters.
type TimeNonce struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

func (t TimeNonce) Next() (Nonce, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return NonceFromUint64(uint64(now().Unix()) * 2), nil
}

// CounterNonce issues random-prefix || counter nonces. The low 8 bytes are
// left zero for the block index.
type CounterNonce struct {
	prefix [4]byte
	seq    atomic.Uint32
}

// NewCounterNonce creates a counter source with a random 32-bit prefix.
func NewCounterNonce() (*CounterNonce, error) {
	c := &CounterNonce{}
	if _, err := io.ReadFull(rand.Reader, c.prefix[:]); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CounterNonce) Next() (Nonce, error) {
	seq := c.seq.Add(1)
	if seq == 0 {
		return Nonce{}, ErrNonceExhausted
	}
	var n Nonce
	copy(n[:4], c.prefix[:])
	binary.BigEndian.PutUint32(n[4:8], seq)
	return n, nil
}
