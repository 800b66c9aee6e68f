// Package staleguard drops late async results. A view calls Begin before a
// fetch and commits the result only if the ticket is still current; Invalidate
// (on blur/unmount, or when a newer fetch starts) retires older tickets.
package staleguard

import "sync/atomic"

type Guard struct {
	gen atomic.Uint64
}

type Ticket struct {
	g   *Guard
	gen uint64
}

// Begin starts a new generation, retiring any earlier ticket.
func (g *Guard) Begin() Ticket {
	return Ticket{g: g, gen: g.gen.Add(1)}
}

func (g *Guard) Invalidate() {
	g.gen.Add(1)
}

func (t Ticket) Current() bool {
	return t.g != nil && t.g.gen.Load() == t.gen
}
