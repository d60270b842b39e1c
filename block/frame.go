// Package block implements the framed LZ4 block codec: the wire format of
// a single block (magic, token, lengths, checksum) and the per-block
// compression/decompression decisions and validations described by the
// protocol this package realizes.
package block

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// frameHeaderSize is the fixed size, in bytes, of every block header:
// magic(8) + token(1) + compressed_len(4) + original_len(4) + checksum(4).
const frameHeaderSize = 21

// magic is the literal "LZ4Block" tag that opens every frame.
var magic = [8]byte{'L', 'Z', '4', 'B', 'l', 'o', 'c', 'k'}

// Method identifies how a frame's payload is stored on the wire.
type Method byte

const (
	// MethodRaw stores the payload verbatim.
	MethodRaw Method = 0x10
	// MethodLZ4 stores the payload LZ4-compressed.
	MethodLZ4 Method = 0x20
)

func (m Method) String() string {
	switch m {
	case MethodRaw:
		return "raw"
	case MethodLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("method(0x%02x)", byte(m))
	}
}

// minBlockSize is the floor used when deriving the effective level: a
// payload shorter than this is still sized as if it were this long.
const minBlockSize = 64

// baseLevel is the offset folded into the token's level code, so that
// levelCode = effectiveLevel - baseLevel fits in the token's low nibble.
const baseLevel = 10

// ErrCorrupted is returned for any header-validation failure, checksum
// mismatch, LZ4 failure, compressed-length mismatch, or an upstream
// end-of-input before the end-of-stream sentinel was seen.
var ErrCorrupted = errors.New("lz4fb: corrupted block")

// header is the parsed, not-yet-validated contents of a frame header.
type header struct {
	method         Method
	levelCode      byte
	effectiveLevel int
	compressedLen  int32
	originalLen    int32
	checksum       uint32
}

// ceilLog2 returns bit_width(x-1): the smallest n such that x <= 1<<n, for
// x >= 1. It matches "32 - count_leading_zeros(x-1)" from the spec.
func ceilLog2(x int) int {
	if x <= 1 {
		return 0
	}
	n := 0
	v := x - 1
	for v > 0 {
		v >>= 1
		n++
	}
	return n
}

// blockSizeAndLevel computes B = max(payloadLen, minBlockSize) and the
// effective level / level code token encoding for it.
func blockSizeAndLevel(payloadLen int) (blockSize, effectiveLevel int, levelCode byte) {
	blockSize = payloadLen
	if blockSize < minBlockSize {
		blockSize = minBlockSize
	}
	effectiveLevel = ceilLog2(blockSize)

	// Defensive assertions only, per the protocol's design notes: they
	// document the invariant but must never change control flow.
	if (1 << uint(effectiveLevel)) < blockSize {
		panic("lz4fb: block: ceilLog2 underestimated block size")
	}
	if 2*blockSize <= (1 << uint(effectiveLevel)) {
		panic("lz4fb: block: block size guard violated")
	}

	lc := effectiveLevel - baseLevel
	if lc < 0 {
		lc = 0
	}
	if lc > 15 {
		panic("lz4fb: block: level code overflow")
	}
	levelCode = byte(lc)
	return
}

// putHeader writes a frame header into dst[0:frameHeaderSize].
func putHeader(dst []byte, method Method, levelCode byte, compressedLen, originalLen int, checksum uint32) {
	copy(dst[0:8], magic[:])
	dst[8] = byte(method) | levelCode
	binary.LittleEndian.PutUint32(dst[9:13], uint32(compressedLen))
	binary.LittleEndian.PutUint32(dst[13:17], uint32(originalLen))
	binary.LittleEndian.PutUint32(dst[17:21], checksum)
}

// parseHeader validates and decodes a frame header from exactly
// frameHeaderSize bytes (a non-destructive peek in callers).
func parseHeader(buf []byte) (header, error) {
	var h header
	if len(buf) < frameHeaderSize {
		return h, fmt.Errorf("lz4fb: block: short header buffer: %w", ErrCorrupted)
	}
	if [8]byte(buf[0:8]) != magic {
		return h, fmt.Errorf("lz4fb: block: bad magic: %w", ErrCorrupted)
	}

	token := buf[8]
	method := Method(token & 0xF0)
	if method != MethodRaw && method != MethodLZ4 {
		return h, fmt.Errorf("lz4fb: block: unknown method 0x%02x: %w", token, ErrCorrupted)
	}
	levelCode := token & 0x0F
	effectiveLevel := baseLevel + int(levelCode)

	compressedLen := int32(binary.LittleEndian.Uint32(buf[9:13]))
	originalLen := int32(binary.LittleEndian.Uint32(buf[13:17]))
	checksum := binary.LittleEndian.Uint32(buf[17:21])

	if originalLen < 0 || compressedLen < 0 {
		return h, fmt.Errorf("lz4fb: block: negative length field: %w", ErrCorrupted)
	}
	if originalLen > (1 << uint(effectiveLevel)) {
		return h, fmt.Errorf("lz4fb: block: original_len exceeds block size bound: %w", ErrCorrupted)
	}
	if (originalLen == 0) != (compressedLen == 0) {
		return h, fmt.Errorf("lz4fb: block: original_len/compressed_len zero mismatch: %w", ErrCorrupted)
	}
	if method == MethodRaw && originalLen != compressedLen {
		return h, fmt.Errorf("lz4fb: block: raw method with mismatched lengths: %w", ErrCorrupted)
	}
	if originalLen == 0 && checksum != 0 {
		return h, fmt.Errorf("lz4fb: block: zero-length frame with nonzero checksum: %w", ErrCorrupted)
	}

	h.method = method
	h.levelCode = levelCode
	h.effectiveLevel = effectiveLevel
	h.compressedLen = compressedLen
	h.originalLen = originalLen
	h.checksum = checksum
	return h, nil
}

// isSentinel reports whether a validated header represents the
// end-of-stream block.
func (h header) isSentinel() bool {
	return h.originalLen == 0
}

// Frame is the result of successfully decoding one block: either a
// decompressed payload, or the end-of-stream marker.
type Frame struct {
	// Payload holds the decompressed bytes. Nil when EndOfStream is true.
	Payload []byte
	// EndOfStream is true when this frame is the sentinel block.
	EndOfStream bool
	// ConsumedBytes is the number of bytes this frame occupied on the wire
	// (frameHeaderSize + CompressedLen), reported for inspector hooks.
	ConsumedBytes int
	// Method reports how the payload was stored on the wire.
	Method Method
	// EffectiveLevel reports the ceil-log2 block size bound used.
	EffectiveLevel int
}
