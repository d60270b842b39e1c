// Package stream provides the streaming drivers on top of package block:
// a Writer that frames each write into one block plus a trailing
// end-of-stream sentinel, and a Reader that decodes an incoming byte
// stream back into payloads, enforcing that nothing follows the
// sentinel.
package stream

import (
	"errors"
	"io"
	"sync"

	"github.com/harriteja/lz4fb/block"
)

// Writer is an io.WriteCloser that frames each Write call into exactly
// one compressed block and, on Close, emits the end-of-stream sentinel
// exactly once. Chunking is not normalized: callers control framing by
// controlling how they call Write.
type Writer struct {
	w          io.Writer
	compressor *block.Compressor
	mu         sync.Mutex
	closed     bool
}

// NewWriter wraps w with a Writer using the fast LZ4 compressor by
// default.
func NewWriter(w io.Writer, opts ...block.Option) *Writer {
	return &Writer{w: w, compressor: block.NewCompressor(opts...)}
}

// Write encodes p as exactly one framed block and writes it to the
// underlying writer. A zero-length p is a no-op: spec.md's encoder
// precondition requires a non-empty payload per frame, so empty writes
// produce no frame rather than erroring the whole stream.
func (z *Writer) Write(p []byte) (int, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return 0, errors.New("lz4fb: stream: write to closed Writer")
	}
	if len(p) == 0 {
		return 0, nil
	}

	frame, err := z.compressor.Compress(p)
	if err != nil {
		return 0, err
	}
	if _, err := z.w.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close emits the end-of-stream sentinel. It is idempotent: calling
// Close more than once is a no-op after the first call succeeds.
func (z *Writer) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return nil
	}
	z.closed = true

	_, err := z.w.Write(z.compressor.EndOfStream())
	return err
}
