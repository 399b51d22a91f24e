// Package channel implements the two-party secure channel.
//
// A Communicator agrees a shared secret with each peer on first use
// (finite-field Diffie-Hellman through the transport's request/delivery
// hooks), encrypts messages under it with the keystream construction, and
// attaches an unkeyed digest of the plaintext. The receiver decrypts,
// recomputes the digest and rejects the message on mismatch.
//
// The digest detects corruption in transit only. It is not a MAC: anyone
// who can rewrite a message can also recompute its digest.
package channel
