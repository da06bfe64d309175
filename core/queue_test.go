package core

import (
	"sync"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewConnectionQueue()
	conns := []*Connection{{FD: -1, Peer: "a"}, {FD: -1, Peer: "b"}, {FD: -1, Peer: "c"}}
	for _, c := range conns {
		if err := q.Push(c); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for i, want := range conns {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop #%d = %v (ok=%v), want %v", i, got, ok, want)
		}
	}
}

func TestQueueTryPopEmpty(t *testing.T) {
	q := NewConnectionQueue()
	if c, ok := q.TryPop(); ok || c != nil {
		t.Errorf("TryPop on empty = (%v, %v), want (nil, false)", c, ok)
	}
}

func TestQueuePushAfterShutdown(t *testing.T) {
	q := NewConnectionQueue()
	q.Shutdown()
	if err := q.Push(&Connection{FD: -1}); err != ErrQueueClosed {
		t.Errorf("Push after Shutdown = %v, want ErrQueueClosed", err)
	}
}

func TestQueueDrainsAfterShutdown(t *testing.T) {
	q := NewConnectionQueue()
	c := &Connection{FD: -1, Peer: "queued"}
	if err := q.Push(c); err != nil {
		t.Fatal(err)
	}
	q.Shutdown()

	got, ok := q.Pop()
	if !ok || got != c {
		t.Fatalf("Pop after Shutdown = (%v, %v), want the queued connection", got, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on closed empty queue reported ok")
	}
}

func TestQueueShutdownWakesBlockedWorkers(t *testing.T) {
	q := NewConnectionQueue()

	const workers = 4
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := q.Pop(); !ok {
					return
				}
			}
		}()
	}

	// Give the goroutines a moment to block in Pop before the broadcast.
	time.Sleep(10 * time.Millisecond)
	q.Shutdown()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked workers were not woken by Shutdown")
	}
}

func TestQueuePopWaitsForPush(t *testing.T) {
	q := NewConnectionQueue()
	c := &Connection{FD: -1, Peer: "late"}

	got := make(chan *Connection, 1)
	go func() {
		v, ok := q.Pop()
		if ok {
			got <- v
		}
	}()

	time.Sleep(5 * time.Millisecond)
	if err := q.Push(c); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-got:
		if v != c {
			t.Errorf("Pop = %v, want %v", v, c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not observe the Push")
	}
}
