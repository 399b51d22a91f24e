package channel

import "sync"

// gate orders sends and key changes for one peer. Sends run concurrently
// with each other. An agreement waits for in-flight sends and blocks new
// ones until it ends. An install from the peer's side waits for in-flight
// sends, unless our own agreement already holds them off.
type gate struct {
	mu         sync.Mutex
	cond       *sync.Cond
	sending    int
	installing int
	agreeing   bool
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *gate) beginSend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.agreeing || g.installing > 0 {
		g.cond.Wait()
	}
	g.sending++
}

func (g *gate) endSend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sending--
	if g.sending == 0 {
		g.cond.Broadcast()
	}
}

func (g *gate) beginAgree() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.agreeing || g.sending > 0 {
		g.cond.Wait()
	}
	g.agreeing = true
}

func (g *gate) endAgree() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.agreeing = false
	g.cond.Broadcast()
}

// install runs fn with no send in flight.
func (g *gate) install(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.installing++
	for g.sending > 0 && !g.agreeing {
		g.cond.Wait()
	}
	fn()
	g.installing--
	g.cond.Broadcast()
}
