// Package transport defines the call/response hooks participants use to
// reach each other. Delivery is synchronous: every call returns only after
// the receiving participant has processed it, and any error it raised is
// returned to the caller.
package transport

import (
	"context"
	"errors"
	"math/big"

	"github.com/TheusHen/schan/schan/identity"
)

var (
	ErrUnknownPeer = errors.New("transport: unknown peer")
	ErrDuplicate   = errors.New("transport: peer already registered")
	ErrNoPublicKey = errors.New("transport: missing public value")
)

// Message is an encrypted message in transit.
type Message struct {
	// Envelope is the encoded nonce || ciphertext.
	Envelope []byte
	// Digest is the hash of the plaintext.
	Digest []byte
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	return Message{
		Envelope: append([]byte(nil), m.Envelope...),
		Digest:   append([]byte(nil), m.Digest...),
	}
}

// Endpoint is the narrow interface a participant exposes to its peers.
type Endpoint interface {
	// ReceivePublicKeyRequest asks the participant for a fresh public value
	// generated from a bits-bit private exponent bound to the requester.
	ReceivePublicKeyRequest(ctx context.Context, from identity.ID, bits int) (*big.Int, error)
	// ReceivePublicKey delivers the requester's public value, completing
	// the agreement on the receiving side.
	ReceivePublicKey(ctx context.Context, from identity.ID, public *big.Int) error
	// ReceiveEncryptedMessage delivers an encrypted message.
	ReceiveEncryptedMessage(ctx context.Context, from identity.ID, msg Message) error
}

// Transport routes calls from one participant to another's Endpoint.
type Transport interface {
	RequestPublicKey(ctx context.Context, from, to identity.ID, bits int) (*big.Int, error)
	SendPublicKey(ctx context.Context, from, to identity.ID, public *big.Int) error
	SendEncryptedMessage(ctx context.Context, from, to identity.ID, msg Message) error
}
