package queue

import "testing"

func TestPeekByteDoesNotConsume(t *testing.T) {
	q := New()
	q.Write([]byte("hello"))

	for i, want := range []byte("hello") {
		got, ok := q.PeekByte(i)
		if !ok || got != want {
			t.Fatalf("PeekByte(%d) = (%v, %v), want (%v, true)", i, got, ok, want)
		}
	}
	if q.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 after peeking only", q.Len())
	}
}

func TestPeekByteOutOfRange(t *testing.T) {
	q := New()
	q.Write([]byte("ab"))
	if _, ok := q.PeekByte(2); ok {
		t.Fatal("PeekByte(2) should be out of range for a 2-byte queue")
	}
	if _, ok := q.PeekByte(-1); ok {
		t.Fatal("PeekByte(-1) should be out of range")
	}
}

func TestSkipAcrossMultipleBuffers(t *testing.T) {
	q := New()
	q.Write([]byte("ab"))
	q.Write([]byte("cd"))
	q.Write([]byte("ef"))

	q.Skip(3) // consumes "ab" entirely and "c" from the second buffer
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	got, _ := q.PeekByte(0)
	if got != 'd' {
		t.Fatalf("PeekByte(0) = %c, want 'd'", got)
	}
}

func TestTakeExactAcrossMultipleBuffers(t *testing.T) {
	q := New()
	q.Write([]byte("ab"))
	q.Write([]byte("cd"))
	q.Write([]byte("ef"))

	got := q.TakeExact(5)
	if string(got) != "abcde" {
		t.Fatalf("TakeExact(5) = %q, want %q", got, "abcde")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	remaining, _ := q.PeekByte(0)
	if remaining != 'f' {
		t.Fatalf("remaining byte = %c, want 'f'", remaining)
	}
}

func TestTakeExactByteAtATime(t *testing.T) {
	q := New()
	for _, b := range []byte("streaming") {
		q.Write([]byte{b})
	}
	got := q.TakeExact(9)
	if string(got) != "streaming" {
		t.Fatalf("TakeExact(9) = %q, want %q", got, "streaming")
	}
}

func TestSkipPastEndPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic skipping past end of queue")
		}
	}()
	q := New()
	q.Write([]byte("a"))
	q.Skip(2)
}
