// Package identity provides opaque participant handles.
package identity

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("identity: invalid participant id")

// ID identifies a participant. Distinct participants never compare equal;
// the zero ID is never issued by New.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// New issues a fresh random ID.
func New() ID {
	return ID(uuid.New())
}

// Parse reads the canonical string form produced by String.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Join(ErrInvalidID, err)
	}
	return ID(u), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first 8 hex characters, for logs.
func (id ID) Short() string {
	return id.String()[:8]
}

func (id ID) IsNil() bool { return id == Nil }
