// Package lz4fb implements a framed block codec: a byte stream is
// compressed as a sequence of self-describing LZ4 blocks, each guarded by
// a per-block XXH32 checksum, and terminated by a sentinel end-of-stream
// block. See package block for the wire format and per-block codec, and
// package stream for the io.Reader/io.WriteCloser streaming drivers built
// on top of it.
package lz4fb

import (
	"io"

	"github.com/harriteja/lz4fb/block"
	"github.com/harriteja/lz4fb/stream"
)

// Re-exported options, so callers configuring a Writer/Reader do not need
// to import package block directly for the common case.
type (
	// CompressorOption configures the block compressor used by a Writer.
	CompressorOption = block.Option
)

// WithFast selects pierrec/lz4's fast block compressor (the default).
func WithFast() CompressorOption { return block.WithFast() }

// WithHC selects pierrec/lz4's high-compression block compressor at the
// given level, clamped to [9, 17].
func WithHC(level int) CompressorOption { return block.WithHC(level) }

// WithNone disables compression: every block is emitted RAW.
func WithNone() CompressorOption { return block.WithNone() }

// NewWriter returns an io.WriteCloser that frames each Write call into
// one compressed block and emits the end-of-stream sentinel on Close.
func NewWriter(w io.Writer, opts ...CompressorOption) *stream.Writer {
	return stream.NewWriter(w, opts...)
}

// NewReader returns an io.Reader that decodes a framed LZ4 byte stream
// produced by a Writer (or any conforming encoder) back into the
// original payloads.
func NewReader(r io.Reader, opts ...stream.ReaderOption) *stream.Reader {
	return stream.NewReader(r, opts...)
}

// Compress encodes payload as a complete framed stream: one block
// followed by the end-of-stream sentinel; an empty payload yields the
// sentinel alone. It drives a block.Compressor directly and produces the
// same bytes as one Write followed by Close on a Writer.
func Compress(payload []byte, opts ...CompressorOption) ([]byte, error) {
	c := block.NewCompressor(opts...)
	if len(payload) == 0 {
		return c.EndOfStream(), nil
	}
	frame, err := c.Compress(payload)
	if err != nil {
		return nil, err
	}
	return append(frame, c.EndOfStream()...), nil
}

// Decompress decodes a complete framed stream produced by Compress (or
// a Writer that emitted exactly one payload block) back into its
// original payload.
func Decompress(framed []byte) ([]byte, error) {
	r := NewReader(newByteSliceReader(framed))
	return io.ReadAll(r)
}

// byteSliceReader adapts a []byte to io.Reader without pulling in
// bytes.Reader's Seek/ReadAt surface, which Reader does not need.
type byteSliceReader struct {
	data []byte
	pos  int
}

func newByteSliceReader(data []byte) *byteSliceReader {
	return &byteSliceReader{data: data}
}

func (b *byteSliceReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}
