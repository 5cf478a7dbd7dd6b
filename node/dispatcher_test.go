package node

import (
	"testing"
	"time"
)

type testEvent struct{ n int }

func TestThreadDeliversInOrder(t *testing.T) {
	th := NewThread("T1", 16)
	defer th.Stop()

	got := make(chan int, 16)
	Subscribe(th, func(e testEvent) { got <- e.n })

	for i := 0; i < 5; i++ {
		if !th.Post(testEvent{n: i}) {
			t.Fatalf("post %d failed", i)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case n := <-got:
			if n != i {
				t.Fatalf("expected %d, got %d", i, n)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestRegistryPostUnknownThread(t *testing.T) {
	reg := NewRegistry()
	if reg.Post("nope", testEvent{}) {
		t.Fatal("expected Post to an unregistered thread to fail")
	}
}

func TestRegistryPostKnownThread(t *testing.T) {
	reg := NewRegistry()
	th := NewThread("T1", 4)
	reg.Register(th)
	defer th.Stop()

	got := make(chan testEvent, 4)
	Subscribe(th, func(e testEvent) { got <- e })

	if !reg.Post("T1", testEvent{n: 42}) {
		t.Fatal("expected Post to succeed")
	}
	select {
	case e := <-got:
		if e.n != 42 {
			t.Fatalf("expected 42, got %d", e.n)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}
