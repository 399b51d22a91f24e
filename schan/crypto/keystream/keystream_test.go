package keystream

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t testing.TB) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := testKey(t)
	src, err := NewCounterNonce()
	require.NoError(t, err)

	messages := []string{
		"",
		"hello",
		"exactly sixteen!",
		"Здравствуй, мир, ünïcödé payload",
		strings.Repeat("long message ", 40),
	}
	for _, m := range messages {
		env, err := Seal(key, []byte(m), src)
		require.NoError(t, err)

		got, err := Open(key, env)
		require.NoError(t, err)
		assert.Equal(t, m, string(got))
	}
}

func TestPaddingAlwaysAddsBytes(t *testing.T) {
	key := testKey(t)
	src := TimeNonce{}
	for n := 0; n <= 48; n++ {
		env, err := Seal(key, []byte(strings.Repeat("a", n)), src)
		require.NoError(t, err)
		want := (n/16 + 1) * 16
		assert.Equalf(t, want, len(env.Ciphertext), "plaintext length %d", n)
		assert.Equal(t, want, PaddedLen(n))
	}

	env, err := Seal(key, []byte("0123456789abcdef"), src)
	require.NoError(t, err)
	assert.Len(t, env.Ciphertext, 32)
	assert.Len(t, env.Encode(), 48)
}

func TestTimeNonce(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	n, err := TimeNonce{Now: func() time.Time { return fixed }}.Next()
	require.NoError(t, err)
	assert.Equal(t, NonceFromUint64(3400000000), n)
}

func TestCounterNonceUnique(t *testing.T) {
	src, err := NewCounterNonce()
	require.NoError(t, err)
	seen := map[Nonce]bool{}
	for i := 0; i < 1000; i++ {
		n, err := src.Next()
		require.NoError(t, err)
		require.False(t, seen[n], "nonce reused")
		seen[n] = true
		assert.Equal(t, [8]byte{}, [8]byte(n[8:]))
	}
}

func TestCounterBlockXorsIndex(t *testing.T) {
	n := NonceFromUint64(0xf0)
	b := n.counterBlock(0x0f)
	assert.Equal(t, byte(0xff), b[15])
	assert.Equal(t, [15]byte{}, [15]byte(b[:15]))
}

// With a zero low half the XOR counter equals the standard CTR increment.
func TestMatchesCTRWhenLowHalfZero(t *testing.T) {
	key := testKey(t)
	src, err := NewCounterNonce()
	require.NoError(t, err)

	msg := []byte(strings.Repeat("counter mode ", 10))
	env, err := Seal(key, msg, src)
	require.NoError(t, err)

	ref, err := aes.NewCipher(key)
	require.NoError(t, err)
	padded := make([]byte, len(env.Ciphertext))
	copy(padded, msg)
	want := make([]byte, len(padded))
	cipher.NewCTR(ref, env.Nonce[:]).XORKeyStream(want, padded)
	assert.Equal(t, want, env.Ciphertext)
}

func TestOpenErrors(t *testing.T) {
	key := testKey(t)
	src := TimeNonce{}

	_, err := Open(key, Envelope{})
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
	_, err = Open(key, Envelope{Ciphertext: make([]byte, 17)})
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	// 15 bytes leaves a single padding byte; corrupting it removes the terminator.
	env, err := Seal(key, []byte("fifteen bytes!!"), src)
	require.NoError(t, err)
	env.Ciphertext[15] ^= 0x01
	_, err = Open(key, env)
	assert.ErrorIs(t, err, ErrNoTerminator)

	env, err = Seal(key, []byte("hi"), src)
	require.NoError(t, err)
	env.Ciphertext[10] ^= 0x80
	_, err = Open(key, env)
	assert.ErrorIs(t, err, ErrBadPadding)

	_, err = Open(make([]byte, 16), Envelope{Ciphertext: make([]byte, 16)})
	assert.Error(t, err)
}

func TestSealRejectsZeroByte(t *testing.T) {
	_, err := Seal(testKey(t), []byte{'a', 0, 'b'}, TimeNonce{})
	assert.ErrorIs(t, err, ErrZeroByte)
}

func TestEnvelopeEncodeDecode(t *testing.T) {
	key := testKey(t)
	env, err := Seal(key, []byte("wire format"), TimeNonce{})
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(env.Encode())
	require.NoError(t, err)
	assert.Equal(t, env, decoded)

	for _, n := range []int{0, 16, 31, 33} {
		_, err := DecodeEnvelope(make([]byte, n))
		assert.ErrorIs(t, err, ErrMalformedCiphertext)
	}
}

func BenchmarkSeal(b *testing.B) {
	key := make([]byte, 32)
	src, _ := NewCounterNonce()
	msg := []byte(strings.Repeat("x", 1024))
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Seal(key, msg, src)
	}
}
