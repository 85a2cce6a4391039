package command

// Queue holds the pending primitives for one combat as two FIFO sequences.
// Primitives produced while the primary queue drains go to the deferred
// queue, which is promoted to primary once primary empties. This gives
// breadth-first cascade resolution: all direct effects of a primitive resolve
// before any of its triggered side effects.
//
// Not safe for concurrent use; a combat has exactly one thread of control.
type Queue struct {
	primary  []Command
	deferred []Command
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends cmd to the primary queue.
func (q *Queue) Push(cmd Command) {
	q.primary = append(q.primary, cmd)
}

// Defer appends cmd to the deferred queue. Deferred primitives become
// eligible only after the current primary queue is exhausted.
func (q *Queue) Defer(cmd Command) {
	q.deferred = append(q.deferred, cmd)
}

// Len returns the total number of pending primitives in both queues.
func (q *Queue) Len() int {
	return len(q.primary) + len(q.deferred)
}

// Reset discards all pending primitives.
func (q *Queue) Reset() {
	q.primary = q.primary[:0]
	q.deferred = q.deferred[:0]
}

// pop removes and returns the next eligible primitive, promoting the deferred
// queue when primary is empty. Returns false when both queues are empty.
func (q *Queue) pop() (Command, bool) {
	if len(q.primary) == 0 {
		if len(q.deferred) == 0 {
			return Command{}, false
		}
		q.primary, q.deferred = q.deferred, q.primary[:0]
	}
	cmd := q.primary[0]
	q.primary = q.primary[1:]
	return cmd, true
}
