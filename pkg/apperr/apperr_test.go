package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/piorhaii05/eatup/pkg/apiclient"
)

var errNoAddress = errors.New("no default address")

func TestUserMessage(t *testing.T) {
	t.Run("validation reason", func(t *testing.T) {
		err := fmt.Errorf("checkout: %w", Invalid(errNoAddress, "Please add a delivery address"))
		if got := UserMessage(err); got != "Please add a delivery address" {
			t.Fatalf("got %q", got)
		}
		if !errors.Is(err, errNoAddress) || !IsValidation(err) {
			t.Fatal("sentinel lost")
		}
	})

	t.Run("server message", func(t *testing.T) {
		err := &apiclient.RequestError{Status: 400, Message: "Voucher expired"}
		if got := UserMessage(err); got != "Voucher expired" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("request without message -> generic", func(t *testing.T) {
		err := &apiclient.RequestError{Status: 500}
		if got := UserMessage(err); got != MsgGeneric {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		err := fmt.Errorf("%w: dial tcp", apiclient.ErrUnreachable)
		if got := UserMessage(err); got != MsgUnreachable {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if got := UserMessage(nil); got != "" {
			t.Fatalf("got %q", got)
		}
	})
}
