package staleguard

import "testing"

func TestGuard(t *testing.T) {
	var g Guard

	first := g.Begin()
	if !first.Current() {
		t.Fatal("fresh ticket should be current")
	}

	second := g.Begin()
	if first.Current() {
		t.Fatal("older ticket should be retired by a newer Begin")
	}
	if !second.Current() {
		t.Fatal("newest ticket should be current")
	}

	g.Invalidate()
	if second.Current() {
		t.Fatal("Invalidate should retire outstanding tickets")
	}

	var zero Ticket
	if zero.Current() {
		t.Fatal("zero ticket is never current")
	}
}
