package localstore

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

type record struct {
	TxnID string `json:"txn_id"`
	Total int64  `json:"total"`
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	bs, err := OpenBolt(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { bs.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bs,
	}
}

func TestStoreBasics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := Get[record](s, "pending"); ok || err != nil {
				t.Fatalf("empty store: ok=%v err=%v", ok, err)
			}

			if err := Put(s, "pending", record{TxnID: "a", Total: 10}); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, ok, err := Get[record](s, "pending")
			if err != nil || !ok || got.TxnID != "a" {
				t.Fatalf("get: %+v ok=%v err=%v", got, ok, err)
			}

			written, err := PutIfAbsent(s, "pending", record{TxnID: "b"})
			if err != nil || written {
				t.Fatalf("PutIfAbsent over existing value: written=%v err=%v", written, err)
			}

			if _, ok, _ := TakeIf(s, "pending", func(r record) bool { return r.TxnID == "other" }); ok {
				t.Fatal("TakeIf must not take on mismatch")
			}
			if _, ok, _ := Get[record](s, "pending"); !ok {
				t.Fatal("mismatch must leave value in place")
			}

			taken, ok, err := Take[record](s, "pending")
			if err != nil || !ok || taken.Total != 10 {
				t.Fatalf("take: %+v ok=%v err=%v", taken, ok, err)
			}
			if _, ok, _ := Get[record](s, "pending"); ok {
				t.Fatal("value should be gone after take")
			}

			if err := Delete(s, "pending"); err != nil {
				t.Fatalf("delete on absent key: %v", err)
			}
		})
	}
}

func TestTakeIfIsExclusive(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := Put(s, "pending", record{TxnID: "tx-1"}); err != nil {
				t.Fatalf("put: %v", err)
			}

			var winners atomic.Int32
			g, _ := errgroup.WithContext(context.Background())
			for i := 0; i < 20; i++ {
				g.Go(func() error {
					_, ok, err := TakeIf(s, "pending", func(r record) bool { return r.TxnID == "tx-1" })
					if ok {
						winners.Add(1)
					}
					return err
				})
			}
			if err := g.Wait(); err != nil {
				t.Fatalf("concurrent take: %v", err)
			}
			if winners.Load() != 1 {
				t.Fatalf("expected exactly one winner, got %d", winners.Load())
			}
		})
	}
}
