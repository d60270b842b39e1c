package block

import (
	"fmt"
	"hash"

	"github.com/harriteja/lz4fb/queue"
)

// DecompressorOption configures a Decompressor.
type DecompressorOption func(*Decompressor)

// WithDecoderCustomEndOfStream exists purely for symmetry with encoder
// harnesses: the decoder always accepts the sentinel regardless of which
// mode produced it, since both modes are bit-identical (see design
// notes). The flag is recorded but never changes decoding behavior.
func WithDecoderCustomEndOfStream(custom bool) DecompressorOption {
	return func(d *Decompressor) {
		d.customEOS = custom
	}
}

// Decompressor consumes a byte queue and decodes it one frame at a time.
// It is not safe for concurrent use.
type Decompressor struct {
	hasher    hash.Hash32
	customEOS bool
}

// NewDecompressor builds a Decompressor.
func NewDecompressor(opts ...DecompressorOption) *Decompressor {
	d := &Decompressor{hasher: newChecksum()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TryDecompress attempts to consume one complete frame from q.
//
//   - (nil, nil) means "need more bytes"; q is left untouched.
//   - (frame, nil) with frame.EndOfStream == false carries a decompressed
//     payload; exactly one frame was removed from q.
//   - (frame, nil) with frame.EndOfStream == true is the sentinel; exactly
//     frameHeaderSize bytes were removed from q.
//   - (nil, err) with errors.Is(err, ErrCorrupted) means the stream is
//     permanently broken; q's state is no longer meaningful.
func (d *Decompressor) TryDecompress(q *queue.Queue) (*Frame, error) {
	// Step 1: magic prefix guard for a queue shorter than one full header.
	if q.Len() < frameHeaderSize {
		n := q.Len()
		if n > 8 {
			n = 8
		}
		for i := 0; i < n; i++ {
			b, _ := q.PeekByte(i)
			if b != magic[i] {
				return nil, fmt.Errorf("lz4fb: block: bad magic prefix: %w", ErrCorrupted)
			}
		}
		return nil, nil
	}

	// Step 2: header parse (non-destructive peek).
	hdrBuf := make([]byte, frameHeaderSize)
	for i := range hdrBuf {
		b, ok := q.PeekByte(i)
		if !ok {
			return nil, nil
		}
		hdrBuf[i] = b
	}
	h, err := parseHeader(hdrBuf)
	if err != nil {
		return nil, err
	}

	// Step 3: completeness check.
	total := frameHeaderSize + int(h.compressedLen)
	if q.Len() < total {
		return nil, nil
	}

	// Step 4: commit header.
	q.Skip(frameHeaderSize)

	// Step 5: sentinel branch.
	if h.isSentinel() {
		return &Frame{
			EndOfStream:    true,
			ConsumedBytes:  frameHeaderSize,
			Method:         h.method,
			EffectiveLevel: h.effectiveLevel,
		}, nil
	}

	// Step 6: body.
	body := q.TakeExact(int(h.compressedLen))
	out := make([]byte, h.originalLen)
	switch h.method {
	case MethodRaw:
		copy(out, body)
	case MethodLZ4:
		consumed, decErr := lz4Decompress(body, out)
		if decErr != nil {
			return nil, fmt.Errorf("lz4fb: block: lz4 decompress failed: %w: %w", decErr, ErrCorrupted)
		}
		if consumed != len(body) {
			return nil, fmt.Errorf("lz4fb: block: lz4 consumed %d of %d compressed bytes: %w", consumed, len(body), ErrCorrupted)
		}
	}

	// Step 7: checksum.
	d.hasher.Reset()
	d.hasher.Write(out) //nolint:errcheck // hash.Hash.Write never fails
	if sum := d.hasher.Sum32(); sum != h.checksum {
		return nil, fmt.Errorf("lz4fb: block: checksum mismatch (got 0x%08x, want 0x%08x): %w", sum, h.checksum, ErrCorrupted)
	}

	return &Frame{
		Payload:        out,
		ConsumedBytes:  total,
		Method:         h.method,
		EffectiveLevel: h.effectiveLevel,
	}, nil
}
