package block

import "fmt"

// Word is one column of round-key material.
type Word [4]byte

// Schedule is the expanded key: 15 round keys of 4 words each.
// It is immutable once built by ExpandKey.
type Schedule [ScheduleWords]Word

// RoundKey returns the 16 bytes of round key r in column-major order.
func (s *Schedule) RoundKey(r int) [BlockSize]byte {
	var out [BlockSize]byte
	for c := 0; c < 4; c++ {
		copy(out[4*c:], s[4*r+c][:])
	}
	return out
}

// ExpandKey derives the 60-word schedule from a 32-byte key.
func ExpandKey(key []byte) (*Schedule, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrKeySize, len(key))
	}

	var s Schedule
	for i := 0; i < keyWords; i++ {
		copy(s[i][:], key[4*i:4*i+4])
	}

	round := 1
	for i := keyWords; i < ScheduleWords; i++ {
		t := s[i-1]
		switch i % keyWords {
		case 0:
			t = subWord(rotWord(t))
			t[0] ^= rcon[round]
			round++
		case 4:
			t = subWord(t)
		}
		prev := s[i-keyWords]
		for j := range t {
			s[i][j] = prev[j] ^ t[j]
		}
	}
	return &s, nil
}

func rotWord(w Word) Word {
	return Word{w[1], w[2], w[3], w[0]}
}

func subWord(w Word) Word {
	return Word{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}
