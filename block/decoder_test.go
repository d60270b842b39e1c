package block

import (
	"errors"
	"testing"

	"github.com/harriteja/lz4fb/queue"
)

func encodeOneFrame(t *testing.T, payload []byte, opts ...Option) []byte {
	t.Helper()
	c := NewCompressor(opts...)
	frame, err := c.Compress(payload)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	return frame
}

func TestTryDecompressNeedsMoreBytes(t *testing.T) {
	frame := encodeOneFrame(t, []byte("hello world"), WithFast())
	q := queue.New()
	d := NewDecompressor()

	// Feed everything except the last byte.
	q.Write(frame[:len(frame)-1])
	got, err := d.TryDecompress(q)
	if err != nil {
		t.Fatalf("TryDecompress: %v", err)
	}
	if got != nil {
		t.Fatalf("expected need-more (nil, nil), got frame %+v", got)
	}
	if q.Len() != len(frame)-1 {
		t.Fatalf("queue should be untouched on need-more, len=%d want %d", q.Len(), len(frame)-1)
	}
}

func TestTryDecompressTolerantOfByteAtATimeFragmentation(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	frame := encodeOneFrame(t, payload, WithFast())

	q := queue.New()
	d := NewDecompressor()

	var result *Frame
	for _, b := range frame {
		q.Write([]byte{b})
		f, err := d.TryDecompress(q)
		if err != nil {
			t.Fatalf("TryDecompress: %v", err)
		}
		if f != nil {
			result = f
			break
		}
	}
	if result == nil {
		t.Fatal("never decoded a frame despite feeding every byte")
	}
	if string(result.Payload) != string(payload) {
		t.Fatalf("payload = %q, want %q", result.Payload, payload)
	}
}

func TestTryDecompressSentinel(t *testing.T) {
	c := NewCompressor(WithFast())
	sentinel := c.EndOfStream()

	q := queue.New()
	q.Write(sentinel)
	d := NewDecompressor()

	f, err := d.TryDecompress(q)
	if err != nil {
		t.Fatalf("TryDecompress: %v", err)
	}
	if f == nil || !f.EndOfStream {
		t.Fatalf("expected end-of-stream frame, got %+v", f)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty after sentinel, len=%d", q.Len())
	}
}

func TestTryDecompressRejectsTokenOutsideKnownMethods(t *testing.T) {
	frame := encodeOneFrame(t, []byte("payload data"), WithFast())
	frame[8] = 0x40 | (frame[8] & 0x0F) // unknown method nibble

	q := queue.New()
	q.Write(frame)
	d := NewDecompressor()

	_, err := d.TryDecompress(q)
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("error = %v, want ErrCorrupted", err)
	}
}

func TestTryDecompressDetectsChecksumMismatch(t *testing.T) {
	frame := encodeOneFrame(t, []byte("payload data"), WithNone())
	// Flip a bit in the payload, past the header.
	frame[frameHeaderSize] ^= 0x01

	q := queue.New()
	q.Write(frame)
	d := NewDecompressor()

	_, err := d.TryDecompress(q)
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("error = %v, want ErrCorrupted", err)
	}
}

// TestTryDecompressDetectsHeaderBitFlip flips the low bit of each header
// byte that is fully cross-validated: magic, compressed_len, original_len,
// and checksum. The token byte (index 8) is excluded on purpose — its low
// nibble (level_code) is only ever used as a bound check on original_len
// (see spec's data model), so a level_code bit flip that still leaves
// original_len within the resulting (larger) bound is not corruption by
// design, not a decoder bug.
func TestTryDecompressDetectsHeaderBitFlip(t *testing.T) {
	payload := make([]byte, 200)
	for i := range payload {
		payload[i] = byte(i)
	}
	base := encodeOneFrame(t, payload, WithNone())

	for i := 0; i < frameHeaderSize; i++ {
		if i == 8 {
			continue
		}
		frame := make([]byte, len(base))
		copy(frame, base)
		frame[i] ^= 0x01

		q := queue.New()
		q.Write(frame)
		d := NewDecompressor()

		if _, err := d.TryDecompress(q); err == nil {
			t.Fatalf("header byte %d: bit flip was not detected as corruption", i)
		}
	}
}

// TestTryDecompressDetectsPayloadBitFlip flips each byte of the payload in
// turn (RAW-encoded, so any payload mutation is visible verbatim) and
// checks the checksum catches it.
func TestTryDecompressDetectsPayloadBitFlip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, twice over")
	base := encodeOneFrame(t, payload, WithNone())

	for i := frameHeaderSize; i < len(base); i++ {
		frame := make([]byte, len(base))
		copy(frame, base)
		frame[i] ^= 0x01

		q := queue.New()
		q.Write(frame)
		d := NewDecompressor()

		if _, err := d.TryDecompress(q); !errors.Is(err, ErrCorrupted) {
			t.Fatalf("payload byte %d: bit flip error = %v, want ErrCorrupted", i, err)
		}
	}
}
