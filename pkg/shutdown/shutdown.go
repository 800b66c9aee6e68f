package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Graceful runs stop and waits up to timeout for it to return. If the budget
// runs out, force is called and Graceful reports false.
func Graceful(timeout time.Duration, stop func(context.Context), force func()) bool {
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		stop(stopCtx)
		close(stopped)
	}()

	select {
	case <-stopCtx.Done():
		if force != nil {
			force()
		}
		return false
	case <-stopped:
		return true
	}
}
