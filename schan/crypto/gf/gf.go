// Package gf implements the GF(2^8) arithmetic used by the block cipher's
// key schedule and column mixing. The field is defined by the reduction
// polynomial x^8 + x^4 + x^3 + x + 1 (0x11b).
package gf

// Poly is the reduction polynomial without its x^8 term.
const Poly = 0x1b

// Add adds two field elements. Addition in GF(2^8) is XOR.
func Add(a, b byte) byte { return a ^ b }

// Double multiplies a by x (i.e. by 2) and reduces modulo 0x11b.
func Double(a byte) byte {
	hi := a & 0x80
	a <<= 1
	if hi != 0 {
		a ^= Poly
	}
	return a
}

// Triple multiplies a by 3, which is Double(a) XOR a.
func Triple(a byte) byte { return Double(a) ^ a }

// Mul multiplies two field elements with shift-and-add.
func Mul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		a = Double(a)
		b >>= 1
	}
	return p
}
