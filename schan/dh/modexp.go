package dh

import (
	"errors"
	"math/big"
)

var (
	ErrInvalidModulus   = errors.New("dh: modulus must be positive")
	ErrNegativeExponent = errors.New("dh: exponent must be non-negative")
)

var one = big.NewInt(1)

// PowMod computes base^exp mod m by square-and-multiply: for every set bit
// i of exp, base^(2^i) mod m is folded into the product.
func PowMod(base, exp, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if exp.Sign() < 0 {
		return nil, ErrNegativeExponent
	}

	result := new(big.Int).Mod(one, m)
	square := new(big.Int).Mod(base, m)
	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, square)
			result.Mod(result, m)
		}
		square.Mul(square, square)
		square.Mod(square, m)
	}
	return result, nil
}
