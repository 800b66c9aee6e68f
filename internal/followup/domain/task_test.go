package domain

import (
	"errors"
	"testing"
	"time"
)

func TestForOrder(t *testing.T) {
	now := time.Now()

	tasks := ForOrder("o1", "u1", []string{"p1", "p2"}, "v1", now)
	if len(tasks) != 2 {
		t.Fatalf("tasks: %+v", tasks)
	}
	if tasks[0].Kind != KindCartRemove || tasks[1].Kind != KindVoucherIncrement {
		t.Fatalf("kinds: %s %s", tasks[0].Kind, tasks[1].Kind)
	}
	if tasks[0].ID == "" || tasks[0].ID == tasks[1].ID {
		t.Fatal("each task needs its own id")
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			t.Fatalf("%s: %v", task.Kind, err)
		}
	}

	if got := ForOrder("o2", "u1", []string{"p1"}, "", now); len(got) != 1 {
		t.Fatalf("no voucher means no increment: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	bad := []Task{
		{Kind: KindCartRemove, UserID: "u1"},
		{Kind: KindCartRemove, ProductIDs: []string{"p"}},
		{Kind: KindVoucherIncrement},
		{Kind: "email.send"},
	}
	for _, task := range bad {
		if err := task.Validate(); !errors.Is(err, ErrInvalidTask) {
			t.Fatalf("%+v: %v", task, err)
		}
	}
}
