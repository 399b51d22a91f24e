// Package dh implements finite-field Diffie-Hellman key agreement over a
// fixed (generator, modulus) pair, with its own square-and-multiply modular
// exponentiation.
//
// Public values received from a peer are not checked for subgroup
// membership or degenerate values such as 0, 1 or p-1, and the shared
// secret is used directly as key material without a KDF.
package dh
