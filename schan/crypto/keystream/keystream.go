package keystream

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/TheusHen/schan/schan/crypto/block"
)

var (
	ErrMalformedCiphertext = errors.New("keystream: ciphertext is not a positive multiple of the block size")
	ErrNoTerminator        = errors.New("keystream: no zero terminator in padded plaintext")
	ErrBadPadding          = errors.New("keystream: invalid padding after terminator")
	ErrZeroByte            = errors.New("keystream: plaintext contains a zero byte")
	ErrNonceExhausted      = errors.New("keystream: nonce counter exhausted")
)

// Envelope is a sealed message: the nonce and the padded ciphertext.
type Envelope struct {
	Nonce      Nonce
	Ciphertext []byte
}

// Encode serializes the envelope.
// Format: nonce (16 bytes, big endian) || ciphertext (multiple of 16)
func (e Envelope) Encode() []byte {
	out := make([]byte, len(e.Nonce)+len(e.Ciphertext))
	copy(out, e.Nonce[:])
	copy(out[len(e.Nonce):], e.Ciphertext)
	return out
}

// DecodeEnvelope parses the wire form produced by Encode.
func DecodeEnvelope(data []byte) (Envelope, error) {
	if len(data) < 2*block.BlockSize || len(data)%block.BlockSize != 0 {
		return Envelope{}, fmt.Errorf("%w: %d bytes", ErrMalformedCiphertext, len(data))
	}
	var e Envelope
	copy(e.Nonce[:], data[:block.BlockSize])
	e.Ciphertext = append([]byte(nil), data[block.BlockSize:]...)
	return e, nil
}

// PaddedLen returns the ciphertext length for an n-byte plaintext.
func PaddedLen(n int) int {
	return (n/block.BlockSize + 1) * block.BlockSize
}

// Seal pads plaintext and encrypts it under key with a nonce taken from src.
func Seal(key, plaintext []byte, src NonceSource) (Envelope, error) {
	if bytes.IndexByte(plaintext, 0) >= 0 {
		return Envelope{}, ErrZeroByte
	}
	s, err := block.ExpandKey(key)
	if err != nil {
		return Envelope{}, err
	}
	nonce, err := src.Next()
	if err != nil {
		return Envelope{}, err
	}

	buf := make([]byte, PaddedLen(len(plaintext)))
	copy(buf, plaintext)
	xorKeyStream(buf, nonce, s)
	return Envelope{Nonce: nonce, Ciphertext: buf}, nil
}

// Open decrypts env under key and strips the padding.
func Open(key []byte, env Envelope) ([]byte, error) {
	n := len(env.Ciphertext)
	if n == 0 || n%block.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedCiphertext, n)
	}
	s, err := block.ExpandKey(key)
	if err != nil {
		return nil, err
	}

	buf := append([]byte(nil), env.Ciphertext...)
	xorKeyStream(buf, env.Nonce, s)

	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return nil, ErrNoTerminator
	}
	if n-end > block.BlockSize {
		return nil, fmt.Errorf("%w: %d padding bytes", ErrBadPadding, n-end)
	}
	for _, b := range buf[end:] {
		if b != 0 {
			return nil, ErrBadPadding
		}
	}
	return buf[:end], nil
}

// xorKeyStream XORs buf in place with E(nonce XOR i) for every chunk i.
func xorKeyStream(buf []byte, nonce Nonce, s *block.Schedule) {
	for i := 0; i*block.BlockSize < len(buf); i++ {
		ks := block.EncryptBlock(nonce.counterBlock(uint64(i)), s)
		chunk := buf[i*block.BlockSize : (i+1)*block.BlockSize]
		for j := range chunk {
			chunk[j] ^= ks[j]
		}
	}
}
