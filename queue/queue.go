// Package queue implements the FIFO-of-byte-buffers collaborator the
// streaming block decoder is driven against: non-destructive peek,
// destructive skip, and exact-length take, over a sequence of buffers
// appended as they arrive from upstream.
package queue

// Queue is a FIFO of byte buffers. Buffers are appended whole (Write) and
// consumed from the front either non-destructively (PeekByte, Len) or
// destructively (Skip, TakeExact). It never copies an appended buffer on
// Write; it only copies bytes out in TakeExact, which always returns an
// owned, contiguous slice, whether or not the bytes span several buffers.
type Queue struct {
	bufs []([]byte)
	off  int // offset into bufs[0] already consumed
	size int // total unconsumed bytes across all buffers
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Write appends p to the back of the queue. p is retained, not copied;
// callers must not mutate it afterwards.
func (q *Queue) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	q.bufs = append(q.bufs, p)
	q.size += len(p)
}

// Len returns the number of unconsumed bytes currently queued.
func (q *Queue) Len() int {
	return q.size
}

// PeekByte returns the byte at the given offset from the front of the
// queue without consuming anything. ok is false if offset is out of
// range.
func (q *Queue) PeekByte(offset int) (b byte, ok bool) {
	if offset < 0 || offset >= q.size {
		return 0, false
	}
	pos := q.off + offset
	for _, buf := range q.bufs {
		if pos < len(buf) {
			return buf[pos], true
		}
		pos -= len(buf)
	}
	return 0, false
}

// Skip discards n bytes from the front of the queue. It panics if n
// exceeds Len(), which callers must never request (the decoder only
// skips a header once it has confirmed Len() >= n).
func (q *Queue) Skip(n int) {
	if n > q.size {
		panic("queue: Skip past end of queue")
	}
	q.size -= n
	for n > 0 {
		avail := len(q.bufs[0]) - q.off
		if n < avail {
			q.off += n
			return
		}
		n -= avail
		q.bufs[0] = nil
		q.bufs = q.bufs[1:]
		q.off = 0
	}
}

// TakeExact removes and returns exactly n bytes from the front of the
// queue as a freshly owned slice. It panics if n exceeds Len(), under the
// same caller contract as Skip.
func (q *Queue) TakeExact(n int) []byte {
	if n > q.size {
		panic("queue: TakeExact past end of queue")
	}
	if n == 0 {
		return nil
	}

	// Fast path: n fits entirely within the first buffer.
	if avail := len(q.bufs[0]) - q.off; n <= avail {
		out := make([]byte, n)
		copy(out, q.bufs[0][q.off:q.off+n])
		q.Skip(n)
		return out
	}

	out := make([]byte, n)
	pos := 0
	remaining := n
	for remaining > 0 {
		avail := len(q.bufs[0]) - q.off
		take := avail
		if take > remaining {
			take = remaining
		}
		copy(out[pos:pos+take], q.bufs[0][q.off:q.off+take])
		pos += take
		remaining -= take
		q.Skip(take)
	}
	return out
}
