// Package block implements a 14-round block permutation over 16-byte blocks
// keyed by 32-byte keys. The round structure is the AES-256 one and the
// engine reproduces its known-answer vectors byte for byte.
package block

import (
	"crypto/cipher"
	"errors"

	"github.com/TheusHen/schan/schan/crypto/gf"
)

const (
	// BlockSize is the block size in bytes.
	BlockSize = 16
	// KeySize is the key size in bytes.
	KeySize = 32
	// Rounds is the number of cipher rounds.
	Rounds = 14
	// ScheduleWords is the number of words in an expanded key.
	ScheduleWords = 4 * (Rounds + 1)

	keyWords = KeySize / 4
)

var (
	ErrKeySize   = errors.New("block: key must be 32 bytes")
	ErrBlockSize = errors.New("block: input not a full block")
)

// state is the 4x4 byte matrix, indexed [row][column].
type state [4][4]byte

func load(in []byte) state {
	var st state
	for i := 0; i < BlockSize; i++ {
		st[i%4][i/4] = in[i]
	}
	return st
}

func (st *state) store(out []byte) {
	for i := 0; i < BlockSize; i++ {
		out[i] = st[i%4][i/4]
	}
}

func (st *state) addRoundKey(s *Schedule, round int) {
	for c := 0; c < 4; c++ {
		w := s[4*round+c]
		for r := 0; r < 4; r++ {
			st[r][c] ^= w[r]
		}
	}
}

func (st *state) subBytes(t *[256]byte) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			st[r][c] = t[st[r][c]]
		}
	}
}

// shiftRows rotates row r left by r positions.
func (st *state) shiftRows() {
	for r := 1; r < 4; r++ {
		row := st[r]
		for c := 0; c < 4; c++ {
			st[r][c] = row[(c+r)%4]
		}
	}
}

func (st *state) invShiftRows() {
	for r := 1; r < 4; r++ {
		row := st[r]
		for c := 0; c < 4; c++ {
			st[r][(c+r)%4] = row[c]
		}
	}
}

// mixColumns multiplies each column by the circulant matrix (2 3 1 1).
func (st *state) mixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := st[0][c], st[1][c], st[2][c], st[3][c]
		st[0][c] = gf.Double(a0) ^ gf.Triple(a1) ^ a2 ^ a3
		st[1][c] = a0 ^ gf.Double(a1) ^ gf.Triple(a2) ^ a3
		st[2][c] = a0 ^ a1 ^ gf.Double(a2) ^ gf.Triple(a3)
		st[3][c] = gf.Triple(a0) ^ a1 ^ a2 ^ gf.Double(a3)
	}
}

// invMixColumns multiplies each column by the inverse matrix (14 11 13 9).
func (st *state) invMixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := st[0][c], st[1][c], st[2][c], st[3][c]
		st[0][c] = gf.Mul(a0, 0x0e) ^ gf.Mul(a1, 0x0b) ^ gf.Mul(a2, 0x0d) ^ gf.Mul(a3, 0x09)
		st[1][c] = gf.Mul(a0, 0x09) ^ gf.Mul(a1, 0x0e) ^ gf.Mul(a2, 0x0b) ^ gf.Mul(a3, 0x0d)
		st[2][c] = gf.Mul(a0, 0x0d) ^ gf.Mul(a1, 0x09) ^ gf.Mul(a2, 0x0e) ^ gf.Mul(a3, 0x0b)
		st[3][c] = gf.Mul(a0, 0x0b) ^ gf.Mul(a1, 0x0d) ^ gf.Mul(a2, 0x09) ^ gf.Mul(a3, 0x0e)
	}
}

// EncryptBlock encrypts one block under an expanded key.
func EncryptBlock(in [BlockSize]byte, s *Schedule) [BlockSize]byte {
	st := load(in[:])
	st.addRoundKey(s, 0)
	for round := 1; round < Rounds; round++ {
		st.subBytes(&sbox)
		st.shiftRows()
		st.mixColumns()
		st.addRoundKey(s, round)
	}
	st.subBytes(&sbox)
	st.shiftRows()
	st.addRoundKey(s, Rounds)

	var out [BlockSize]byte
	st.store(out[:])
	return out
}

// DecryptBlock inverts EncryptBlock.
func DecryptBlock(in [BlockSize]byte, s *Schedule) [BlockSize]byte {
	st := load(in[:])
	st.addRoundKey(s, Rounds)
	for round := Rounds - 1; round > 0; round-- {
		st.invShiftRows()
		st.subBytes(&invSbox)
		st.addRoundKey(s, round)
		st.invMixColumns()
	}
	st.invShiftRows()
	st.subBytes(&invSbox)
	st.addRoundKey(s, 0)

	var out [BlockSize]byte
	st.store(out[:])
	return out
}

// Cipher binds a schedule to the crypto/cipher.Block interface.
type Cipher struct {
	schedule *Schedule
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher expands key and returns a Cipher.
func NewCipher(key []byte) (*Cipher, error) {
	s, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{schedule: s}, nil
}

// Schedule returns the expanded key backing c.
func (c *Cipher) Schedule() *Schedule { return c.schedule }

func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block of src into dst. Like the standard
// library block ciphers it panics on short buffers.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic(ErrBlockSize)
	}
	out := EncryptBlock([BlockSize]byte(src[:BlockSize]), c.schedule)
	copy(dst, out[:])
}

// Decrypt decrypts the first block of src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic(ErrBlockSize)
	}
	out := DecryptBlock([BlockSize]byte(src[:BlockSize]), c.schedule)
	copy(dst, out[:])
}
