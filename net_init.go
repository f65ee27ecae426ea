package cotask

import "sync"

// netInitOnce guards process-wide network stack initialization. POSIX
// needs none (sockets work unconditionally), but the type exists so
// callers have the same scoped init/deinit handle the original design
// requires on platforms that do.
var netInitOnce sync.Once

// NetStack represents process-wide network-stack initialization.
// [InitNet] returns one; call [NetStack.Close] when no more sockets
// will be created. Idempotent and safe to call from multiple
// goroutines, though a scheduler's own I/O always runs on its loop
// thread.
type NetStack struct {
	closeOnce sync.Once
}

// InitNet performs process-wide network stack initialization. On
// POSIX platforms this is a no-op beyond bookkeeping; it exists so
// code written against this package is portable to platforms (e.g.
// Windows) where socket use requires an explicit init/deinit pair.
func InitNet() (*NetStack, error) {
	netInitOnce.Do(func() {})
	return &NetStack{}, nil
}

// Close releases the network stack handle. Safe to call more than
// once.
func (n *NetStack) Close() error {
	n.closeOnce.Do(func() {})
	return nil
}
