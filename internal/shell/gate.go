package shell

import "sync"

// gate plays the role of the shell's signal mask. The signal dispatcher holds
// it for the whole body of every handler, so while the main flow holds it no
// SIGCHLD, SIGINT or SIGTSTP handling can observe or change the job table.
type gate struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *gate) block() {
	g.mu.Lock()
}

func (g *gate) unblock() {
	g.mu.Unlock()
}

// suspend must be called with the gate blocked. It unblocks the gate until the
// next broadcast and blocks it again before returning.
func (g *gate) suspend() {
	g.cond.Wait()
}

// broadcast wakes every suspended caller. The reaper calls it after each drain.
func (g *gate) broadcast() {
	g.cond.Broadcast()
}
