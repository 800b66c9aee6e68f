package app

import (
	"encoding/json"
	"fmt"

	"github.com/piorhaii05/eatup/internal/checkout/domain"
	"github.com/piorhaii05/eatup/pkg/localstore"
)

// bindPending records the provider's transaction id on the pending order. A
// record that is already gone stays gone.
func bindPending(s localstore.Store, intent PaymentIntent) error {
	return s.Update(domain.PendingKey, func(cur []byte) ([]byte, error) {
		if cur == nil {
			return nil, localstore.ErrKeep
		}
		var p domain.PendingOrder
		if err := json.Unmarshal(cur, &p); err != nil {
			return nil, fmt.Errorf("decode pending order: %w", err)
		}
		p.AppTransID = intent.AppTransID
		p.PaymentURL = intent.OrderURL
		return json.Marshal(p)
	})
}
