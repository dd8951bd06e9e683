// Package blockio provides the low-level byte plumbing shared by the FITS
// codec: 2880-byte block padding and the MSB-first bit-vector packing used by
// binary-table X columns.
package blockio

import "io"

// BlockSize is the FITS alignment unit for headers and data alike.
const BlockSize = 2880

// CardsPerBlock is the number of 80-byte cards in one header block.
const CardsPerBlock = 36

// Pad returns how many fill bytes follow n payload bytes to reach the next
// block boundary. n on a boundary needs no padding.
func Pad(n int64) int64 {
	r := n % BlockSize
	if r == 0 {
		return 0
	}
	return BlockSize - r
}

// WritePad writes count copies of fill.
func WritePad(w io.Writer, count int64, fill byte) error {
	if count <= 0 {
		return nil
	}
	buf := make([]byte, min(count, BlockSize))
	for i := range buf {
		buf[i] = fill
	}
	for count > 0 {
		n := min(count, int64(len(buf)))
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
		count -= n
	}
	return nil
}

// Discard reads and drops count bytes from r.
func Discard(r io.Reader, count int64) error {
	if count <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, count)
	return err
}

// PackBits packs a logical bit vector into ceil(len/8) bytes. Bit i lands in
// bit (7 - i%8) of byte i/8; unused trailing bits are zero.
func PackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}

// UnpackBits expands n bits from their packed form.
func UnpackBits(raw []byte, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		if i/8 < len(raw) {
			bits[i] = raw[i/8]&(1<<(7-uint(i%8))) != 0
		}
	}
	return bits
}
