package blockio

import (
	"bytes"
	"testing"
)

func TestPad(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int64
		want int64
	}{
		{0, 0},
		{1, 2879},
		{24, 2856},
		{2880, 0},
		{2881, 2879},
		{5760, 0},
	}
	for _, tc := range cases {
		if got := Pad(tc.n); got != tc.want {
			t.Errorf("Pad(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestWritePad(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WritePad(&buf, 3000, ' '); err != nil {
		t.Fatalf("write pad: %v", err)
	}
	if buf.Len() != 3000 {
		t.Fatalf("wrote %d bytes, want 3000", buf.Len())
	}
	for i, b := range buf.Bytes() {
		if b != ' ' {
			t.Fatalf("byte %d is %#x, want space", i, b)
		}
	}
}

func TestPackBits(t *testing.T) {
	t.Parallel()

	bits := []bool{true, false, true, true, false, false, false, false, true, true, false, true, false}
	packed := PackBits(bits)
	if !bytes.Equal(packed, []byte{0xB0, 0xD0}) {
		t.Fatalf("packed = %#x, want b0 d0", packed)
	}

	back := UnpackBits(packed, len(bits))
	for i := range bits {
		if back[i] != bits[i] {
			t.Fatalf("bit %d = %v after round trip", i, back[i])
		}
	}
}

func TestPackBitsRoundTrip(t *testing.T) {
	t.Parallel()

	// A few lengths around byte boundaries.
	for _, n := range []int{1, 7, 8, 9, 15, 16, 17, 64} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = i%3 == 0
		}
		packed := PackBits(bits)
		if len(packed) != (n+7)/8 {
			t.Fatalf("n=%d: packed into %d bytes", n, len(packed))
		}
		back := UnpackBits(packed, n)
		for i := range bits {
			if back[i] != bits[i] {
				t.Fatalf("n=%d: bit %d flipped", n, i)
			}
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader(make([]byte, 100))
	if err := Discard(r, 60); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if r.Len() != 40 {
		t.Fatalf("remaining %d, want 40", r.Len())
	}
	if err := Discard(r, 60); err == nil {
		t.Fatal("expected error discarding past EOF")
	}
}
