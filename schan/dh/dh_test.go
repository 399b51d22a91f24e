package dh

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowModMatchesBigExp(t *testing.T) {
	params := DefaultParams()
	for i := 0; i < 20; i++ {
		base, err := rand.Int(rand.Reader, params.P)
		require.NoError(t, err)
		exp, err := RandomBits(nil, 300)
		require.NoError(t, err)

		got, err := PowMod(base, exp, params.P)
		require.NoError(t, err)
		want := new(big.Int).Exp(base, exp, params.P)
		require.Zero(t, want.Cmp(got))
	}
}

func TestPowModSmall(t *testing.T) {
	cases := []struct{ b, e, m, want int64 }{
		{5, 6, 23, 8},
		{5, 15, 23, 19},
		{19, 6, 23, 2},
		{8, 15, 23, 2},
		{7, 0, 13, 1},
		{7, 0, 1, 0},
		{0, 5, 7, 0},
		{2, 11, 1000, 48},
	}
	for _, c := range cases {
		got, err := PowMod(big.NewInt(c.b), big.NewInt(c.e), big.NewInt(c.m))
		require.NoError(t, err)
		assert.Equalf(t, c.want, got.Int64(), "%d^%d mod %d", c.b, c.e, c.m)
	}
}

func TestPowModErrors(t *testing.T) {
	_, err := PowMod(big.NewInt(2), big.NewInt(3), big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidModulus)
	_, err = PowMod(big.NewInt(2), big.NewInt(-3), big.NewInt(7))
	assert.ErrorIs(t, err, ErrNegativeExponent)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, int64(2), p.G.Int64())
	assert.Len(t, p.P.String(), 501)

	want, ok := new(big.Int).SetString("2"+strings.Repeat("0", 490)+"2832923787", 10)
	require.True(t, ok)
	assert.Zero(t, want.Cmp(p.P))
}

func TestAgreementSymmetry(t *testing.T) {
	params := DefaultParams()
	a, err := NewExchange(params, nil, 256)
	require.NoError(t, err)
	b, err := NewExchange(params, nil, 256)
	require.NoError(t, err)

	sa, err := a.Shared(b.Public())
	require.NoError(t, err)
	sb, err := b.Shared(a.Public())
	require.NoError(t, err)
	assert.Zero(t, sa.Cmp(sb))
	assert.Equal(t, KeyBytes(sa), KeyBytes(sb))
}

func TestRandomBits(t *testing.T) {
	for _, bits := range []int{1, 7, 8, 9, 255, 256} {
		for i := 0; i < 20; i++ {
			x, err := RandomBits(nil, bits)
			require.NoError(t, err)
			assert.LessOrEqual(t, x.BitLen(), bits)
		}
	}
	_, err := RandomBits(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidBits)

	_, err = RandomBits(bytes.NewReader(nil), 8)
	assert.Error(t, err)
}

func TestKeyBytes(t *testing.T) {
	assert.Equal(t, append(make([]byte, 31), 5), KeyBytes(big.NewInt(5)))

	// Only the low 256 bits survive.
	big1 := new(big.Int).Lsh(big.NewInt(1), 300)
	big1.Add(big1, big.NewInt(0x0102))
	key := KeyBytes(big1)
	require.Len(t, key, KeySize)
	assert.Equal(t, []byte{0x01, 0x02}, key[30:])
	assert.Equal(t, make([]byte, 30), key[:30])
}

func BenchmarkPowMod(b *testing.B) {
	params := DefaultParams()
	x, _ := RandomBits(nil, 256)
	for i := 0; i < b.N; i++ {
		_, _ = PowMod(params.G, x, params.P)
	}
}
