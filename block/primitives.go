package block

import (
	"errors"
	"hash"

	"github.com/pierrec/lz4/v4"
	"github.com/pierrec/xxHash/xxHash32"
)

// errShortDecompress is raised when the LZ4 decompressor produces fewer
// bytes than the frame header promised.
var errShortDecompress = errors.New("lz4fb: block: lz4 decompressor produced short output")

// xxh32Seed is the fixed XXH32 seed used for every checksum computed by
// this codec.
const xxh32Seed = 0x9747B28C

// newChecksum constructs a fresh, reset streaming XXH32 hasher.
func newChecksum() hash.Hash32 {
	return xxHash32.New(xxh32Seed)
}

// checksum32 is a convenience one-shot helper built on top of newChecksum;
// frame encode/decode paths that own a long-lived hasher reset it instead.
func checksum32(p []byte) uint32 {
	h := newChecksum()
	h.Write(p) //nolint:errcheck // hash.Hash.Write never fails
	return h.Sum32()
}

// lz4Compressor is the LZ4 compression collaborator: compress(src) -> dst,
// plus the worst-case output bound. A nil lz4Compressor means "no
// compression" (always RAW), matching the encoder's null-compressor mode.
type lz4Compressor interface {
	// CompressBlock compresses src into dst, returning the number of bytes
	// written, or an error if dst was too small.
	CompressBlock(src, dst []byte) (int, error)
	// CompressBound returns the worst-case compressed size for a src of
	// length n.
	CompressBound(n int) int
}

// fastCompressor wraps pierrec/lz4's default (fast) block compressor.
type fastCompressor struct{}

func (fastCompressor) CompressBlock(src, dst []byte) (int, error) {
	var c lz4.Compressor
	return c.CompressBlock(src, dst)
}

func (fastCompressor) CompressBound(n int) int {
	return lz4.CompressBlockBound(n)
}

// hcCompressor wraps pierrec/lz4's high-compression block compressor,
// parameterized by a level in [9, 17].
type hcCompressor struct {
	level lz4.CompressionLevel
}

// newHCCompressor clamps level into the supported [9,17] range.
func newHCCompressor(level int) hcCompressor {
	if level < 9 {
		level = 9
	}
	if level > 17 {
		level = 17
	}
	return hcCompressor{level: lz4.CompressionLevel(level)}
}

func (c hcCompressor) CompressBlock(src, dst []byte) (int, error) {
	hc := lz4.CompressorHC{Level: c.level}
	return hc.CompressBlock(src, dst)
}

func (hcCompressor) CompressBound(n int) int {
	return lz4.CompressBlockBound(n)
}

// lz4Decompress runs the LZ4 fast decompressor: it decodes src (exactly
// compressedLen bytes) into dst (exactly originalLen bytes) and reports
// how many source bytes it consumed, matching the spec's
// "decompress(src, dst) -> consumed_src_bytes" contract.
func lz4Decompress(src, dst []byte) (consumed int, err error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, err
	}
	if n != len(dst) {
		return 0, errShortDecompress
	}
	// pierrec/lz4's block decompressor consumes the whole source slice by
	// contract (it has no concept of trailing bytes within one block), so
	// the consumed length is simply len(src).
	return len(src), nil
}
