package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/harriteja/lz4fb/block"
	"github.com/harriteja/lz4fb/queue"
)

// ErrUnexpectedTrailingData is returned when bytes remain in the queue,
// or new bytes arrive, after the end-of-stream sentinel has already been
// consumed. It is a distinct error kind from block.ErrCorrupted.
var ErrUnexpectedTrailingData = errors.New("lz4fb: stream: unexpected trailing data after end-of-stream")

// Inspector observes frames passively as the Reader decodes them; it must
// never influence decoding. Either field may be nil.
type Inspector struct {
	// OnFrame is called once per non-sentinel frame with the number of
	// wire bytes it occupied and its decompressed payload.
	OnFrame func(consumedBytes int, payload []byte)
	// OnEndOfStream is called once, when the sentinel is decoded.
	OnEndOfStream func(consumedBytes int)
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithInspector attaches a passive Inspector to the Reader.
func WithInspector(ins Inspector) ReaderOption {
	return func(r *Reader) {
		r.inspector = &ins
	}
}

// Reader is an io.Reader that decodes an underlying framed LZ4 byte
// stream back into its original payloads. It accumulates incoming bytes
// in a FIFO queue and decodes frames from it one at a time, asking the
// underlying reader for more only when the queue holds no complete frame.
type Reader struct {
	r            io.Reader
	decompressor *block.Decompressor
	inspector    *Inspector

	q           *queue.Queue
	chunk       []byte
	pending     []byte // decoded bytes not yet returned to the caller
	finished    bool
	upstreamEOF bool
	err         error
}

// NewReader wraps r with a Reader.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		r:            r,
		decompressor: block.NewDecompressor(),
		q:            queue.New(),
		chunk:        make([]byte, 64*1024),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	for {
		if len(r.pending) > 0 {
			n := copy(p, r.pending)
			r.pending = r.pending[n:]
			return n, nil
		}
		if r.finished {
			return 0, io.EOF
		}
		if err := r.pump(); err != nil {
			r.err = err
			return 0, err
		}
	}
}

// pump decodes the next frame the queue holds, buffering its payload into
// r.pending and returning as soon as one payload is buffered, and pulls
// more bytes from the underlying reader when the queue is exhausted
// without yielding a frame. It returns a terminal error (ErrCorrupted or
// ErrUnexpectedTrailingData) when the stream is invalid.
func (r *Reader) pump() error {
	for {
		frame, err := r.decompressor.TryDecompress(r.q)
		if err != nil {
			return err
		}
		if frame == nil {
			break
		}
		if frame.EndOfStream {
			if r.inspector != nil && r.inspector.OnEndOfStream != nil {
				r.inspector.OnEndOfStream(frame.ConsumedBytes)
			}
			return r.finish()
		}
		if r.inspector != nil && r.inspector.OnFrame != nil {
			r.inspector.OnFrame(frame.ConsumedBytes, frame.Payload)
		}
		if len(frame.Payload) > 0 {
			r.pending = frame.Payload
			return nil
		}
		// A non-sentinel frame with an empty payload cannot occur: header
		// validation requires original_len > 0 for non-sentinel frames.
		// Loop and decode the next frame in the queue.
	}

	if r.upstreamEOF {
		return fmt.Errorf("lz4fb: stream: upstream ended before end-of-stream sentinel: %w", block.ErrCorrupted)
	}
	return r.fill()
}

// fill reads one chunk from the underlying reader into the queue.
func (r *Reader) fill() error {
	n, err := r.r.Read(r.chunk)
	if n > 0 {
		buf := make([]byte, n)
		copy(buf, r.chunk[:n])
		r.q.Write(buf)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		r.upstreamEOF = true
		return nil
	}
	return err
}

// finish verifies that nothing follows the sentinel: the queue must be
// empty, and the underlying reader must report io.EOF.
func (r *Reader) finish() error {
	r.finished = true
	if r.q.Len() > 0 {
		return ErrUnexpectedTrailingData
	}
	if r.upstreamEOF {
		return nil
	}
	n, err := r.r.Read(r.chunk)
	if n > 0 {
		return ErrUnexpectedTrailingData
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	// n == 0, err == nil: underlying reader had nothing ready but hasn't
	// signaled EOF either; treat as clean completion rather than spin.
	return nil
}
