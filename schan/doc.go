// Package schan is a small secure channel toolkit: an AES-256 style block
// engine, a counter keystream with zero padding, Diffie-Hellman key
// agreement over a fixed 501-digit prime, and communicators that agree keys
// on demand and exchange encrypted, digested text messages.
//
// The packages below schan hold the pieces:
//
//	crypto/gf         GF(2^8) arithmetic
//	crypto/block      block cipher engine
//	crypto/keystream  padding, nonces and the counter keystream
//	crypto/digest     plaintext digests
//	dh                modular exponentiation and key agreement
//	channel           communicators
//	transport         delivery contract, with an in-process hub in transport/memory
//	config, logging   ambient setup
//
// The digest attached to each message is unkeyed; it detects corruption,
// not forgery.
package schan
