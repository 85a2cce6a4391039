package command

import "testing"

func popOps(t *testing.T, q *Queue, n int) []OpCode {
	t.Helper()
	var ops []OpCode
	for i := 0; i < n; i++ {
		cmd, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d: queue empty", i)
		}
		ops = append(ops, cmd.Op)
	}
	return ops
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Op: OpBlock})
	q.Push(Command{Op: OpCharge})
	q.Push(Command{Op: OpHeal})

	got := popOps(t, q, 3)
	want := []OpCode{OpBlock, OpCharge, OpHeal}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order %v, want %v", got, want)
		}
	}
	if _, ok := q.pop(); ok {
		t.Fatal("expected empty queue")
	}
}

// TestQueue_PromoteOnEmpty: deferred primitives become eligible only once the
// primary queue is exhausted, even when interleaved with pushes.
func TestQueue_PromoteOnEmpty(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Op: OpBlock})
	q.Defer(Command{Op: OpAttack})
	q.Push(Command{Op: OpCharge})

	got := popOps(t, q, 3)
	want := []OpCode{OpBlock, OpCharge, OpAttack}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order %v, want %v", got, want)
		}
	}
}

// TestQueue_CascadeLevels: deferrals made while draining a promoted level form
// the next level, keeping cascades breadth-first.
func TestQueue_CascadeLevels(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Op: OpAttack, Value: 1})
	q.Defer(Command{Op: OpAttack, Value: 2})

	cmd, _ := q.pop() // level 0
	if cmd.Value != 1 {
		t.Fatalf("expected level 0 first, got %d", cmd.Value)
	}
	cmd, _ = q.pop() // level 1 promoted
	if cmd.Value != 2 {
		t.Fatalf("expected level 1 next, got %d", cmd.Value)
	}
	q.Defer(Command{Op: OpAttack, Value: 3}) // level 2
	cmd, _ = q.pop()
	if cmd.Value != 3 {
		t.Fatalf("expected level 2 last, got %d", cmd.Value)
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}
}

func TestQueue_Reset(t *testing.T) {
	q := NewQueue()
	q.Push(Command{Op: OpBlock})
	q.Defer(Command{Op: OpAttack})
	if q.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", q.Len())
	}
	q.Reset()
	if q.Len() != 0 {
		t.Fatalf("expected Len 0 after Reset, got %d", q.Len())
	}
	if _, ok := q.pop(); ok {
		t.Fatal("expected empty queue after Reset")
	}
}
