package fits

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Element-level big-endian codec. FITS bodies are big-endian regardless of
// host order; everything funnels through these helpers.

// encodeSlice appends the big-endian bytes of a flat slice to buf.
func encodeSlice(buf []byte, data any) []byte {
	switch d := data.(type) {
	case []uint8:
		return append(buf, d...)
	case []int16:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		}
	case []int32:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		}
	case []int64:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint64(buf, uint64(v))
		}
	case []float32:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
		}
	case []float64:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
		}
	case []complex64:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(real(v)))
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(imag(v)))
		}
	case []complex128:
		for _, v := range d {
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(real(v)))
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(imag(v)))
		}
	case []bool:
		for _, v := range d {
			if v {
				buf = append(buf, 'T')
			} else {
				buf = append(buf, 'F')
			}
		}
	default:
		panic(fmt.Sprintf("fits: encodeSlice: unsupported %T", data))
	}
	return buf
}

// decodeSlice reads n big-endian elements of type t from raw into a flat
// slice.
func decodeSlice(raw []byte, t Type, n int) any {
	switch t {
	case TypeUint8:
		return append([]uint8(nil), raw[:n]...)
	case TypeInt16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(binary.BigEndian.Uint16(raw[2*i:]))
		}
		return out
	case TypeInt32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(raw[4*i:]))
		}
		return out
	case TypeInt64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(raw[8*i:]))
		}
		return out
	case TypeFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.BigEndian.Uint32(raw[4*i:]))
		}
		return out
	case TypeFloat64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[8*i:]))
		}
		return out
	case TypeComplex64:
		out := make([]complex64, n)
		for i := range out {
			re := math.Float32frombits(binary.BigEndian.Uint32(raw[8*i:]))
			im := math.Float32frombits(binary.BigEndian.Uint32(raw[8*i+4:]))
			out[i] = complex(re, im)
		}
		return out
	case TypeComplex128:
		out := make([]complex128, n)
		for i := range out {
			re := math.Float64frombits(binary.BigEndian.Uint64(raw[16*i:]))
			im := math.Float64frombits(binary.BigEndian.Uint64(raw[16*i+8:]))
			out[i] = complex(re, im)
		}
		return out
	case TypeBool:
		out := make([]bool, n)
		for i := range out {
			out[i] = raw[i] == 'T'
		}
		return out
	default:
		panic(fmt.Sprintf("fits: decodeSlice: unsupported %s", t))
	}
}

// scaleSlice applies zero + scale*value element-wise, widening to float64.
func scaleSlice(data any, zero, scale float64) []float64 {
	switch d := data.(type) {
	case []uint8:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*float64(v)
		}
		return out
	case []int16:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*float64(v)
		}
		return out
	case []int32:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*float64(v)
		}
		return out
	case []int64:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*float64(v)
		}
		return out
	case []float32:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*float64(v)
		}
		return out
	case []float64:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = zero + scale*v
		}
		return out
	default:
		return nil
	}
}

// flatLen returns the element count of a flat slice.
func flatLen(data any) int {
	_, n, ok := sliceInfo(data)
	if !ok {
		return 0
	}
	return n
}
