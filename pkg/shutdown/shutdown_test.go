package shutdown

import (
	"context"
	"testing"
	"time"
)

func TestGraceful(t *testing.T) {
	t.Run("stop returns in time", func(t *testing.T) {
		forced := false
		ok := Graceful(time.Second, func(context.Context) {}, func() { forced = true })
		if !ok || forced {
			t.Fatalf("got ok=%v forced=%v", ok, forced)
		}
	})

	t.Run("stop blocks -> force", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		forced := false
		ok := Graceful(20*time.Millisecond, func(context.Context) { <-release }, func() { forced = true })
		if ok || !forced {
			t.Fatalf("got ok=%v forced=%v", ok, forced)
		}
	})
}

func TestWithSignalsCancelsWithParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithSignals(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("child context not cancelled")
	}
}
