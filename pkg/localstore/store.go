// Package localstore is the on-device key-value persistence used for the
// session record, the in-flight pending order and the just-applied voucher.
// Values are stored as JSON.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeep tells Update to leave the stored value untouched.
var ErrKeep = errors.New("keep current value")

// Store is implemented by BoltStore and MemoryStore.
type Store interface {
	// Update runs fn atomically against the raw value of key (nil when
	// absent). A nil return deletes the key; ErrKeep leaves it as is.
	Update(key string, fn func(current []byte) ([]byte, error)) error
	Read(key string) ([]byte, error)
}

func Get[T any](s Store, key string) (T, bool, error) {
	var zero T
	raw, err := s.Read(key)
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("localstore: decode %q: %w", key, err)
	}
	return v, true, nil
}

func Put(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %q: %w", key, err)
	}
	return s.Update(key, func([]byte) ([]byte, error) { return raw, nil })
}

func Delete(s Store, key string) error {
	return s.Update(key, func([]byte) ([]byte, error) { return nil, nil })
}

// Take reads and deletes key in one step. The second result is false when
// nothing was stored.
func Take[T any](s Store, key string) (T, bool, error) {
	return TakeIf(s, key, func(T) bool { return true })
}

// TakeIf deletes key only when its current value satisfies match, and returns
// that value. Two concurrent callers can never both take the same value.
func TakeIf[T any](s Store, key string, match func(T) bool) (T, bool, error) {
	var (
		taken T
		ok    bool
	)
	err := s.Update(key, func(cur []byte) ([]byte, error) {
		if cur == nil {
			return nil, ErrKeep
		}
		var v T
		if err := json.Unmarshal(cur, &v); err != nil {
			return nil, fmt.Errorf("localstore: decode %q: %w", key, err)
		}
		if !match(v) {
			return nil, ErrKeep
		}
		taken, ok = v, true
		return nil, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return taken, ok, nil
}

// PutIfAbsent stores v unless key already holds a value. It reports whether
// v was written.
func PutIfAbsent(s Store, key string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("localstore: encode %q: %w", key, err)
	}
	written := false
	err = s.Update(key, func(cur []byte) ([]byte, error) {
		if cur != nil {
			return nil, ErrKeep
		}
		written = true
		return raw, nil
	})
	return written, err
}
