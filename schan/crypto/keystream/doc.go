// Package keystream turns the block engine into a variable-length cipher.
//
// Each 16-byte chunk i of the zero-padded plaintext is XORed with the
// encryption of the block nonce XOR i. Padding always adds between 1 and 16
// zero bytes, so a block-aligned plaintext gains a full padding block.
// Recovery truncates at the first zero byte, which means payloads must not
// contain zero bytes; Seal rejects them.
//
// The construction carries no authentication of its own and requires that a
// nonce is never reused under the same key.
package keystream
