package digest

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumSHA512MatchesStdlib(t *testing.T) {
	want := sha512.Sum512([]byte("hello"))
	got, err := SHA512.Sum([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, want[:], got)
}

func TestSHA3KnownAnswer(t *testing.T) {
	got, err := SHA3_512.Sum([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t,
		"b751850b1a57168a5693cd924b6b096e08f621827444f70d884f5d0240d2712e10e116e9192af3c91a7ec57647e3934057340b4cf408d5a56592f8274eec53f0",
		hex.EncodeToString(got))
}

func TestAllAlgorithms(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range []Algorithm{SHA512, SHA3_512, BLAKE2b512} {
		sum, err := a.Sum([]byte("payload"))
		require.NoError(t, err)
		assert.Len(t, sum, Size)
		seen[hex.EncodeToString(sum)] = true

		again, err := a.Sum([]byte("payload"))
		require.NoError(t, err)
		assert.True(t, Equal(sum, again))
		assert.False(t, Equal(sum, again[:Size-1]))
	}
	assert.Len(t, seen, 3)
}

func TestParse(t *testing.T) {
	a, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default, a)

	a, err = Parse("blake2b-512")
	require.NoError(t, err)
	assert.Equal(t, BLAKE2b512, a)

	_, err = Parse("md5")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	_, err = Algorithm("md5").New()
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
