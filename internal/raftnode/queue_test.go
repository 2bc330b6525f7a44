package raftnode

import "testing"

func TestQueue_DrainReturnsItemsInFIFOOrder(t *testing.T) {
	q := NewQueue()
	a := &Req{Kind: ReqInfo}
	b := &Req{Kind: ReqCommand}
	q.Enqueue(a)
	q.Enqueue(b)

	items := q.Drain()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != a || items[1] != b {
		t.Fatalf("expected FIFO order [a, b], got %v", items)
	}
}

func TestQueue_DrainEmptiesTheQueue(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&Req{Kind: ReqInfo})
	_ = q.Drain()

	if items := q.Drain(); items != nil {
		t.Fatalf("expected nil on a second drain, got %v", items)
	}
}

func TestQueue_WakeupSignalsOnce(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&Req{Kind: ReqInfo})
	q.Enqueue(&Req{Kind: ReqInfo})

	select {
	case <-q.Wakeup():
	default:
		t.Fatalf("expected a pending wakeup signal")
	}

	select {
	case <-q.Wakeup():
		t.Fatalf("expected the wakeup channel to be drained by the first receive")
	default:
	}
}
