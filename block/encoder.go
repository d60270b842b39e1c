package block

import (
	"errors"
	"hash"
)

// ErrEmptyPayload is returned by Compress when called with an empty
// payload; only EndOfStream may encode zero bytes.
var ErrEmptyPayload = errors.New("lz4fb: block: Compress called with empty payload")

// CompressorMode selects which LZ4 primitive a Compressor drives.
type CompressorMode int

const (
	// ModeNone disables compression entirely: every frame is RAW. Used
	// for testing and for measuring the codec's framing overhead.
	ModeNone CompressorMode = iota
	// ModeFast drives pierrec/lz4's fast block compressor.
	ModeFast
	// ModeHC drives pierrec/lz4's high-compression block compressor at a
	// configurable level in [9, 17].
	ModeHC
)

// Option configures a Compressor.
type Option func(*Compressor)

// WithNone selects the null compressor: every frame is emitted RAW.
func WithNone() Option {
	return func(c *Compressor) {
		c.mode = ModeNone
		c.compressor = nil
	}
}

// WithFast selects pierrec/lz4's fast block compressor.
func WithFast() Option {
	return func(c *Compressor) {
		c.mode = ModeFast
		c.compressor = fastCompressor{}
	}
}

// WithHC selects pierrec/lz4's high-compression block compressor at the
// given level; level is clamped to [9, 17].
func WithHC(level int) Option {
	return func(c *Compressor) {
		c.mode = ModeHC
		c.compressor = newHCCompressor(level)
	}
}

// WithCustomEndOfStream selects the "custom" end-of-stream mode, which
// encodes an empty payload through the normal compress path instead of
// writing the fixed 21-byte constant directly. Both modes produce
// bit-identical output in this implementation (see design notes).
func WithCustomEndOfStream(custom bool) Option {
	return func(c *Compressor) {
		c.customEOS = custom
	}
}

// Compressor encodes payloads into framed LZ4 blocks. It is not safe for
// concurrent use; each goroutine encoding a stream should own one.
type Compressor struct {
	mode       CompressorMode
	compressor lz4Compressor
	customEOS  bool
	hasher     hash.Hash32
}

// NewCompressor builds a Compressor. The default, with no options, uses
// pierrec/lz4's fast compressor.
func NewCompressor(opts ...Option) *Compressor {
	c := &Compressor{
		mode:       ModeFast,
		compressor: fastCompressor{},
		hasher:     newChecksum(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress encodes a single, non-empty payload into exactly one framed
// block, returning a freshly allocated buffer. It follows spec.md/
// SPEC_FULL.md §4.1 step by step: derive the block-size preamble, checksum
// the payload, attempt LZ4 compression, fall back to RAW if it did not
// help, then write the header.
func (c *Compressor) Compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	return c.encode(payload)
}

// EndOfStream returns the end-of-stream sentinel frame. In the default
// (standard) mode this is the fixed 21-byte constant; with
// WithCustomEndOfStream(true), it is produced by encoding an empty
// payload through the normal path, which yields the identical bytes since
// the block-size preamble for length 0 also resolves to B=64.
func (c *Compressor) EndOfStream() []byte {
	if c.customEOS {
		frame, err := c.encode(nil)
		if err != nil {
			// encode(nil) never fails: RAW fallback always succeeds for an
			// empty payload.
			panic(err)
		}
		return frame
	}
	out := make([]byte, frameHeaderSize)
	putHeader(out, MethodRaw, 0, 0, 0, 0)
	return out
}

// encode implements the shared compress path for both Compress and the
// custom end-of-stream mode (which calls it with an empty payload).
func (c *Compressor) encode(payload []byte) ([]byte, error) {
	l := len(payload)
	_, _, levelCode := blockSizeAndLevel(l)

	// A zero-length payload always gets a zero checksum, by wire-format
	// convention (see parseHeader's zero-length/zero-checksum invariant) —
	// not the hash of the empty string, which is seed-dependent and
	// generally nonzero.
	var checksum uint32
	if l > 0 {
		c.hasher.Reset()
		c.hasher.Write(payload) //nolint:errcheck // hash.Hash.Write never fails
		checksum = c.hasher.Sum32()
	}

	bound := l
	if c.compressor != nil {
		bound = c.compressor.CompressBound(l)
	}
	out := make([]byte, frameHeaderSize+bound)

	method := MethodRaw
	compressedLen := l
	if c.compressor != nil && l > 0 {
		n, err := c.compressor.CompressBlock(payload, out[frameHeaderSize:])
		if err == nil && n > 0 && n < l {
			method = MethodLZ4
			compressedLen = n
		}
	}
	if method == MethodRaw {
		copy(out[frameHeaderSize:frameHeaderSize+l], payload)
		compressedLen = l
	}

	putHeader(out, method, levelCode, compressedLen, l, checksum)
	return out[:frameHeaderSize+compressedLen], nil
}
