package world

// workQueue is a FIFO of deferred work items drained a bounded number
// of items per host tick, so long generation batches never block the
// frame. Items must be self-contained: they re-check island state when
// they run, so stale items are harmless no-ops.
type workQueue struct {
	items []func()
}

func (q *workQueue) push(fn func()) {
	q.items = append(q.items, fn)
}

// runN executes up to n items and returns how many ran.
func (q *workQueue) runN(n int) int {
	ran := 0
	for ran < n && len(q.items) > 0 {
		fn := q.items[0]
		q.items = q.items[1:]
		fn()
		ran++
	}
	return ran
}

// drain executes items until the queue is empty, including items
// enqueued while draining.
func (q *workQueue) drain() {
	for len(q.items) > 0 {
		q.runN(len(q.items))
	}
}

func (q *workQueue) clear() { q.items = nil }

func (q *workQueue) len() int { return len(q.items) }
