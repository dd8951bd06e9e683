package fits

import (
	"fmt"
	"io"

	"github.com/samcharles93/fits/internal/blockio"
	"github.com/samcharles93/fits/pkg/card"
)

// WriteHDU serializes one HDU: the body is encoded first so heap sizes are
// known, the header is verified and repaired against the resulting geometry,
// then cards, END, padding, body and body padding are emitted. The HDU's
// deck is healed in place, so a written HDU always reads back consistent.
func WriteHDU(w io.Writer, h *HDU, opts ...Option) error {
	o := applyOptions(opts)

	body, df, fill, err := encodeBody(h, o)
	if err != nil {
		return err
	}

	repairHeader(h.Variant, h.Cards, df, o.Warn)

	if err := writeHeader(w, h.Cards, o); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("%w: body: %w", ErrStream, err)
	}
	if err := blockio.WritePad(w, blockio.Pad(int64(len(body))), fill); err != nil {
		return fmt.Errorf("%w: body padding: %w", ErrStream, err)
	}
	return nil
}

// WriteAll serializes the HDUs in order.
func WriteAll(w io.Writer, hdus []*HDU, opts ...Option) error {
	for _, h := range hdus {
		if err := WriteHDU(w, h, opts...); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader renders every card, appends END, and pads with blank cards to
// the block boundary.
func writeHeader(w io.Writer, d *Deck, o Options) error {
	layout := o.layout()
	buf := make([]byte, 0, blockio.BlockSize)
	for _, c := range d.Cards() {
		for _, line := range c.RenderAll(layout) {
			buf = append(buf, line...)
		}
	}
	buf = append(buf, card.Card{Key: "END"}.Render(layout)...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: header: %w", ErrStream, err)
	}
	if err := blockio.WritePad(w, blockio.Pad(int64(len(buf))), ' '); err != nil {
		return fmt.Errorf("%w: header padding: %w", ErrStream, err)
	}
	return nil
}

// encodeBody renders the body bytes for the HDU's variant and returns the
// final geometry (heap size folded into PCOUNT for binary tables) plus the
// block fill byte: ASCII bodies pad with spaces, binary bodies with zeros.
func encodeBody(h *HDU, o Options) (body []byte, df DataFormat, fill byte, err error) {
	fill = 0

	if h.Data == nil {
		df = dataFormatFromKeys(h.Variant, h.Cards)
		if h.Variant == VariantTable {
			fill = ' '
		}
		return nil, df, fill, nil
	}

	switch {
	case h.Variant == VariantRandom:
		body, df, err = encodeGroups(h)

	case h.Variant == VariantTable:
		fill = ' '
		body, df, err = encodeASCIITable(h)

	case h.Variant.binaryTable():
		body, df, err = encodeBintable(h, o)

	default:
		df, err = dataFormatFromData(h.Variant, h.Data)
		if err != nil {
			return nil, df, fill, err
		}
		a, ok := h.Data.(*Array)
		if !ok {
			return nil, df, fill, fmt.Errorf("fits: %s body must be an array, got %T", h.Variant, h.Data)
		}
		body = encodeSlice(nil, a.Data)
	}
	return body, df, fill, err
}

func encodeGroups(h *HDU) ([]byte, DataFormat, error) {
	df, err := dataFormatFromData(VariantRandom, h.Data)
	if err != nil {
		return nil, df, err
	}
	groups, ok := h.Data.(Groups)
	if !ok {
		return nil, df, fmt.Errorf("fits: random groups body must be Groups, got %T", h.Data)
	}
	buf := make([]byte, 0, df.Leng*df.Type.Size())
	for _, g := range groups {
		buf = encodeSlice(buf, convertFloats(df.Type, g.Params))
		buf = encodeSlice(buf, g.Array.Data)
	}
	return buf, df, nil
}

func encodeBintable(h *HDU, o Options) ([]byte, DataFormat, error) {
	fields, err := h.fieldsWith(o)
	if err != nil {
		return nil, DataFormat{}, err
	}

	cols, err := tableColumns(h.Data, fields)
	if err != nil {
		return nil, DataFormat{}, err
	}

	recordLen := 0
	for _, f := range fields {
		recordLen += f.Slice.Width()
	}
	rows := cols.Rows()

	main, heap, err := encodeRecords(fields, cols, recordLen, rows)
	if err != nil {
		return nil, DataFormat{}, err
	}

	df := DataFormat{
		Type:  TypeUint8,
		Shape: []int{recordLen, rows},
		Param: len(heap),
		Group: 1,
		Leng:  len(main) + len(heap),
		Heap:  len(main),
	}
	return append(main, heap...), df, nil
}

func encodeASCIITable(h *HDU) ([]byte, DataFormat, error) {
	var (
		fields []TextField
		err    error
	)
	if h.Cards != nil && h.Cards.Has("TFIELDS") {
		fields, err = textFieldsFromKeys(h.Cards)
	} else {
		fields, _, err = textFieldsFromData(h.Data)
	}
	if err != nil {
		return nil, DataFormat{}, err
	}

	cols, ok := h.Data.(*Columns)
	if !ok {
		return nil, DataFormat{}, fmt.Errorf("fits: ASCII table body must be columns, got %T", h.Data)
	}
	rows := cols.Rows()

	recordLen := 0
	for _, f := range fields {
		if end := f.Start + f.Width - 1; end > recordLen {
			recordLen = end
		}
	}

	buf := make([]byte, recordLen*rows)
	for i := range buf {
		buf[i] = ' '
	}
	for _, f := range fields {
		col := cols.Col(f.Name)
		for row := 0; row < rows; row++ {
			cell := formatTextCell(f, cellAt(col, row))
			copy(buf[row*recordLen+f.Start-1:], cell)
		}
	}

	df := DataFormat{
		Type:  TypeUint8,
		Shape: []int{recordLen, rows},
		Group: 1,
		Leng:  recordLen * rows,
	}
	return buf, df, nil
}

// tableColumns normalizes a binary-table body to column form for encoding.
func tableColumns(data Body, fields []BinaryField) (*Columns, error) {
	switch d := data.(type) {
	case *Columns:
		return d, nil
	case Records:
		return recordsToColumns(fields, d), nil
	default:
		return nil, fmt.Errorf("fits: binary table body must be columns or records, got %T", data)
	}
}

// convertFloats narrows a float64 slice to the given element type.
func convertFloats(t Type, vals []float64) any {
	switch t {
	case TypeUint8:
		return mapFloats(vals, func(v float64) uint8 { return uint8(v) })
	case TypeInt16:
		return mapFloats(vals, func(v float64) int16 { return int16(v) })
	case TypeInt32:
		return mapFloats(vals, func(v float64) int32 { return int32(v) })
	case TypeInt64:
		return mapFloats(vals, func(v float64) int64 { return int64(v) })
	case TypeFloat32:
		return mapFloats(vals, func(v float64) float32 { return float32(v) })
	default:
		return append([]float64(nil), vals...)
	}
}

func mapFloats[T any](vals []float64, conv func(float64) T) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = conv(v)
	}
	return out
}
