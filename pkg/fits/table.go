package fits

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/samcharles93/fits/internal/blockio"
)

// Binary-table column codec. A column's bytes live at the same Span in every
// record; variable arrays live in the heap behind (count, offset) pointers.

// decodeColumn extracts one column from the record matrix.
func decodeColumn(f BinaryField, main []byte, recordLen, rows int, heap []byte, scale bool) (any, error) {
	at := func(row int) []byte {
		start := row*recordLen + f.Slice.Begin - 1
		return main[start : start+f.Slice.Width()]
	}
	scaled := scale && f.Scaled && (f.Zero != 0 || f.Scale != 1)

	switch {
	case f.Pntr != TypeNone:
		return decodePointerColumn(f, at, rows, heap, scaled)

	case f.Type == TypeString:
		out := make([]string, rows)
		for i := range out {
			out[i] = strings.TrimRight(string(at(i)), " ")
		}
		return out, nil

	case f.Type == TypeBits:
		out := make([]BitVector, rows)
		for i := range out {
			out[i] = BitVector(blockio.UnpackBits(at(i), f.Leng))
		}
		return out, nil

	case f.Leng == 1:
		flat := make([]byte, 0, rows*f.Type.Size())
		for i := 0; i < rows; i++ {
			flat = append(flat, at(i)...)
		}
		col := decodeSlice(flat, f.Type, rows)
		if scaled {
			return scaleSlice(col, f.Zero, f.Scale), nil
		}
		return col, nil

	default:
		return decodeArrayColumn(f, at, rows, scaled), nil
	}
}

func decodePointerColumn(f BinaryField, at func(int) []byte, rows int, heap []byte, scaled bool) (any, error) {
	if f.Type == TypeString {
		out := make([]string, rows)
		for i := range out {
			count, offset := readPointer(f.Pntr, at(i))
			if offset+count > len(heap) {
				return nil, &FieldError{Column: f.Slice.Begin, Reason: fmt.Sprintf("variable string %q overruns heap", f.Name)}
			}
			out[i] = strings.TrimRight(string(heap[offset:offset+count]), " ")
		}
		return out, nil
	}

	cells := make([]any, rows)
	for i := 0; i < rows; i++ {
		count, offset := readPointer(f.Pntr, at(i))
		end := offset + count*f.Type.Size()
		if end > len(heap) {
			return nil, &FieldError{Column: f.Slice.Begin, Reason: fmt.Sprintf("variable array %q overruns heap (%d > %d)", f.Name, end, len(heap))}
		}
		cell := decodeSlice(heap[offset:], f.Type, count)
		if scaled {
			cells[i] = scaleSlice(cell, f.Zero, f.Scale)
		} else {
			cells[i] = cell
		}
	}
	return gatherNested(f.Type, cells, scaled), nil
}

func readPointer(pntr Type, raw []byte) (count, offset int) {
	if pntr == TypeUint64 {
		return int(binary.BigEndian.Uint64(raw)), int(binary.BigEndian.Uint64(raw[8:]))
	}
	return int(binary.BigEndian.Uint32(raw)), int(binary.BigEndian.Uint32(raw[4:]))
}

func decodeArrayColumn(f BinaryField, at func(int) []byte, rows int, scaled bool) any {
	cells := make([]any, rows)
	for i := 0; i < rows; i++ {
		cell := decodeSlice(at(i), f.Type, f.Leng)
		if scaled {
			cells[i] = scaleSlice(cell, f.Zero, f.Scale)
		} else {
			cells[i] = cell
		}
	}
	return gatherNested(f.Type, cells, scaled)
}

// gatherNested turns per-row cells into a typed [][]T column.
func gatherNested(t Type, cells []any, scaled bool) any {
	if scaled {
		out := make([][]float64, len(cells))
		for i, c := range cells {
			out[i], _ = c.([]float64)
		}
		return out
	}
	switch t {
	case TypeUint8:
		return typedNested[uint8](cells)
	case TypeInt16:
		return typedNested[int16](cells)
	case TypeInt32:
		return typedNested[int32](cells)
	case TypeInt64:
		return typedNested[int64](cells)
	case TypeFloat32:
		return typedNested[float32](cells)
	case TypeFloat64:
		return typedNested[float64](cells)
	case TypeComplex64:
		return typedNested[complex64](cells)
	case TypeComplex128:
		return typedNested[complex128](cells)
	case TypeBool:
		return typedNested[bool](cells)
	default:
		return cells
	}
}

func typedNested[T any](cells []any) [][]T {
	out := make([][]T, len(cells))
	for i, c := range cells {
		out[i], _ = c.([]T)
	}
	return out
}

// encodeRecords serializes a column body into the fixed record matrix plus
// the heap. Variable-array payloads are accumulated into the heap in row
// order and their (count, offset) pointers written inline.
func encodeRecords(fields []BinaryField, cols *Columns, recordLen, rows int) (main, heap []byte, err error) {
	main = make([]byte, recordLen*rows)
	for _, f := range fields {
		data := cols.Col(f.Name)
		for row := 0; row < rows; row++ {
			start := row*recordLen + f.Slice.Begin - 1
			cellBytes, payload, perr := encodeCell(f, data, row, len(heap))
			if perr != nil {
				return nil, nil, perr
			}
			heap = append(heap, payload...)
			copy(main[start:start+f.Slice.Width()], cellBytes)
		}
	}
	return main, heap, nil
}

// encodeCell renders one cell into its fixed-width bytes. Pointer columns
// return the heap payload alongside; heapOff is the running heap size used
// as the cell's offset.
func encodeCell(f BinaryField, data any, row, heapOff int) (cell, payload []byte, err error) {
	v := cellAt(data, row)
	w := f.Slice.Width()

	switch {
	case f.Pntr != TypeNone:
		if s, ok := v.(string); ok {
			cell = writePointer(f.Pntr, len(s), heapOff)
			return cell, []byte(s), nil
		}
		v = coerceFlat(f.Type, v)
		payload = encodeSlice(nil, v)
		count := flatLen(v)
		cell = writePointer(f.Pntr, count, heapOff)
		return cell, payload, nil

	case f.Type == TypeString:
		s, _ := v.(string)
		cell = make([]byte, w)
		for i := range cell {
			cell[i] = ' '
		}
		copy(cell, s)
		return cell, nil, nil

	case f.Type == TypeBits:
		bits, _ := v.(BitVector)
		packed := blockio.PackBits(bits)
		cell = make([]byte, w)
		copy(cell, packed)
		return cell, nil, nil

	case f.Leng == 1:
		cell = encodeScalar(nil, f.Type, v)
		if cell == nil {
			// Scaled reads widen numeric cells; narrow them back.
			cell = encodeScalar(nil, f.Type, coerceScalar(f.Type, v))
		}
		if cell == nil {
			return nil, nil, &FieldError{Column: f.Slice.Begin, Reason: fmt.Sprintf("cell %T does not fit column %q (%s)", v, f.Name, f.Type)}
		}
		return cell, nil, nil

	default:
		cell = encodeSlice(nil, coerceFlat(f.Type, v))
		if len(cell) != w {
			return nil, nil, &FieldError{Column: f.Slice.Begin, Reason: fmt.Sprintf("array cell of %d bytes in %d-byte column %q", len(cell), w, f.Name)}
		}
		return cell, nil, nil
	}
}

// coerceFlat converts a numeric cell slice to the column's declared type.
// Reads with scaling enabled widen columns to float64; writing narrows them
// back without applying the inverse transform.
func coerceFlat(t Type, v any) any {
	ct, _, ok := sliceInfo(v)
	if !ok || ct == t || !ct.numeric() || !t.numeric() {
		return v
	}
	return convertFloats(t, scaleSlice(v, 0, 1))
}

// coerceScalar converts a numeric scalar cell to the column's declared type.
func coerceScalar(t Type, v any) any {
	f, ok := numericValue(v)
	if !ok {
		return v
	}
	switch t {
	case TypeUint8:
		return uint8(f)
	case TypeInt16:
		return int16(f)
	case TypeInt32:
		return int32(f)
	case TypeInt64:
		return int64(f)
	case TypeFloat32:
		return float32(f)
	case TypeFloat64:
		return f
	default:
		return v
	}
}

func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case uint8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func writePointer(pntr Type, count, offset int) []byte {
	if pntr == TypeUint64 {
		buf := binary.BigEndian.AppendUint64(nil, uint64(count))
		return binary.BigEndian.AppendUint64(buf, uint64(offset))
	}
	buf := binary.BigEndian.AppendUint32(nil, uint32(count))
	return binary.BigEndian.AppendUint32(buf, uint32(offset))
}

// encodeScalar appends one scalar element in big-endian order. A nil return
// marks a cell/type mismatch.
func encodeScalar(buf []byte, t Type, v any) []byte {
	switch t {
	case TypeUint8:
		if x, ok := v.(uint8); ok {
			return append(buf, x)
		}
	case TypeInt16:
		if x, ok := v.(int16); ok {
			return encodeSlice(buf, []int16{x})
		}
	case TypeInt32:
		if x, ok := v.(int32); ok {
			return encodeSlice(buf, []int32{x})
		}
	case TypeInt64:
		if x, ok := v.(int64); ok {
			return encodeSlice(buf, []int64{x})
		}
	case TypeFloat32:
		if x, ok := v.(float32); ok {
			return encodeSlice(buf, []float32{x})
		}
	case TypeFloat64:
		if x, ok := v.(float64); ok {
			return encodeSlice(buf, []float64{x})
		}
	case TypeComplex64:
		if x, ok := v.(complex64); ok {
			return encodeSlice(buf, []complex64{x})
		}
	case TypeComplex128:
		if x, ok := v.(complex128); ok {
			return encodeSlice(buf, []complex128{x})
		}
	case TypeBool:
		if x, ok := v.(bool); ok {
			return encodeSlice(buf, []bool{x})
		}
	}
	return nil
}
