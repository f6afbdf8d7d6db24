// Package commandqueue is the host -> producer-worker command channel:
// single-producer (host), single-consumer (worker), non-blocking on both
// ends. It is backed directly by
// code.hybscloud.com/lfq's generic SPSC queue rather than an unbounded Go
// channel, because the worker's main loop must "drain all pending commands
// non-blockingly" every iteration — lfq.SPSC.Dequeue already returns
// ErrWouldBlock instead of blocking, which is exactly that contract.
package commandqueue

import (
	"code.hybscloud.com/lfq"

	"github.com/drgolem/audioengine/pkg/types"
)

// DefaultCapacity is generous relative to how infrequently commands are
// issued (seek, stop, bass toggles); commands are infrequent enough that
// unbounded queueing semantics are acceptable in practice.
const DefaultCapacity = 64

// Queue wraps an lfq.SPSC[types.Command].
type Queue struct {
	q *lfq.SPSC[types.Command]
}

// New creates a command queue of the given capacity (rounded up to a
// power of two by lfq.NewSPSC).
func New(capacity int) *Queue {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Queue{q: lfq.NewSPSC[types.Command](capacity)}
}

// Send enqueues a command from the host side. Returns types.ErrWouldBlock
// if the queue is momentarily full; callers may retry since commands are
// infrequent relative to capacity.
func (q *Queue) Send(cmd types.Command) error {
	if err := q.q.Enqueue(&cmd); err != nil {
		return types.ErrWouldBlock
	}
	return nil
}

// TryReceive is called from the worker's main loop to non-blockingly
// drain one pending command. ok is false when the queue is empty.
func (q *Queue) TryReceive() (cmd types.Command, ok bool) {
	c, err := q.q.Dequeue()
	if err != nil {
		return types.Command{}, false
	}
	return c, true
}

// DrainAll calls fn for every command currently pending, in order, per
// step 1 of the producer worker's main loop ("drain all pending commands
// non-blockingly").
func (q *Queue) DrainAll(fn func(types.Command)) {
	for {
		cmd, ok := q.TryReceive()
		if !ok {
			return
		}
		fn(cmd)
	}
}
