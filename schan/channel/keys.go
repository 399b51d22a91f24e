package channel

import (
	"math/big"
	"sync"

	"github.com/TheusHen/schan/schan/identity"
)

// keyEntry holds the current secret and the one it replaced. The previous
// secret still opens messages sealed before the peer saw the new one.
type keyEntry struct {
	current  *big.Int
	previous *big.Int
}

// keyTable maps peers to established shared secrets. Entries never expire;
// a new agreement with the same peer overwrites the old entry.
type keyTable struct {
	mu   sync.RWMutex
	keys map[identity.ID]*keyEntry
}

func newKeyTable() *keyTable {
	return &keyTable{keys: make(map[identity.ID]*keyEntry)}
}

func (t *keyTable) put(peer identity.ID, secret *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.keys[peer]
	if !ok {
		e = &keyEntry{}
		t.keys[peer] = e
	}
	e.previous = e.current
	e.current = new(big.Int).Set(secret)
}

// revert undoes put(peer, secret) if secret is still current.
func (t *keyTable) revert(peer identity.ID, secret *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.keys[peer]
	if !ok || e.current.Cmp(secret) != 0 {
		return
	}
	if e.previous == nil {
		delete(t.keys, peer)
		return
	}
	e.current, e.previous = e.previous, nil
}

func (t *keyTable) get(peer identity.ID) (*big.Int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.keys[peer]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(e.current), true
}

func (t *keyTable) previous(peer identity.ID) (*big.Int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.keys[peer]
	if !ok || e.previous == nil {
		return nil, false
	}
	return new(big.Int).Set(e.previous), true
}

func (t *keyTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

func (t *keyTable) peers() []identity.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]identity.ID, 0, len(t.keys))
	for id := range t.keys {
		out = append(out, id)
	}
	return out
}
