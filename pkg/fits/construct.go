package fits

import (
	"fmt"

	"github.com/samcharles93/fits/pkg/card"
)

// New constructs an HDU from data, from cards, or both. The variant is
// dispatched from whichever inputs are present, with explicit mandatory keys
// taking precedence over the data's shape. The mandatory card prefix is
// synthesized in canonical order, reusing any matching card from the
// caller's deck so its comment survives; the rest of the deck follows
// verbatim (END removed). When data is absent but the header describes a
// non-empty body, a zero-initialized body is allocated.
func New(data any, cards []card.Card, opts ...Option) (*HDU, error) {
	o := applyOptions(opts)
	user := NewDeck(cards...)

	body, err := coerceBody(data)
	if err != nil {
		return nil, err
	}

	variant, err := Dispatch(body, mandatoryValues(user))
	if err != nil {
		return nil, err
	}

	fromKeys := user.Has("BITPIX") || user.Has("NAXIS")
	var df DataFormat
	if fromKeys {
		df = dataFormatFromKeys(variant, user)
	} else {
		df, err = dataFormatFromData(variant, body)
		if err != nil {
			return nil, err
		}
	}

	h := &HDU{Variant: variant, Cards: NewDeck(), Data: body}

	switch {
	case variant == VariantTable:
		err = buildTablePrefix(h, user, df, o, fromKeys)
	case variant.binaryTable():
		err = buildBintablePrefix(h, user, df, o, fromKeys)
	default:
		buildArrayPrefix(h, user, df)
	}
	if err != nil {
		return nil, err
	}

	// The caller's remaining deck follows the mandatory prefix verbatim.
	for _, c := range user.Cards() {
		h.Cards.Append(c)
	}

	if h.Data == nil && df.Leng > 0 {
		h.Data, err = zeroBody(h, df, o)
		if err != nil {
			return nil, err
		}
	}
	if h.Data != nil && variant.binaryTable() {
		h.Data, err = convertTableBody(h, o)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

// coerceBody lifts user-supplied values into the canonical body forms.
func coerceBody(data any) (Body, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case Body:
		return d, nil
	case []Record:
		return Records(d), nil
	case []Group:
		return Groups(d), nil
	case Group:
		return Groups{d}, nil
	case Record:
		return Records{d}, nil
	default:
		if t, _, ok := sliceInfo(data); ok && t.numeric() && !nested(data) {
			return ArrayOf(data)
		}
		return nil, fmt.Errorf("fits: unsupported data %T", data)
	}
}

// mandatoryValues extracts the mandatory-key map the dispatcher consumes.
func mandatoryValues(d *Deck) map[string]any {
	out := make(map[string]any)
	for _, c := range d.Cards() {
		if IsMandatory(c.Key) {
			if _, ok := out[c.Key]; !ok {
				out[c.Key] = c.Value
			}
		}
	}
	return out
}

// take moves the named card from the user deck into the prefix, overriding
// its value but keeping its comment; absent cards are created with a default
// comment.
func take(dst, user *Deck, key string, value any, comment string) {
	if c, ok := user.PopCard(key); ok {
		c.Value = value
		dst.Append(c)
		return
	}
	dst.Append(card.New(key, value, comment))
}

func buildArrayPrefix(h *HDU, user *Deck, df DataFormat) {
	d := h.Cards
	switch h.Variant {
	case VariantPrimary:
		take(d, user, "SIMPLE", true, "conforms to FITS standard")
	case VariantRandom:
		take(d, user, "SIMPLE", true, "conforms to FITS standard")
	default:
		name := user.stringDefault("XTENSION", h.Variant.String())
		take(d, user, "XTENSION", name, "extension type")
	}
	take(d, user, "BITPIX", typeBitpix[df.Type], "array data type")

	if h.Variant == VariantRandom {
		take(d, user, "NAXIS", int64(len(df.Shape)+1), "number of array dimensions")
		take(d, user, "NAXIS1", int64(0), "")
		for i, n := range df.Shape {
			take(d, user, nth("NAXIS", i+2), int64(n), "")
		}
		take(d, user, "GROUPS", true, "random groups present")
		take(d, user, "PCOUNT", int64(df.Param), "parameters per group")
		take(d, user, "GCOUNT", int64(df.Group), "number of groups")
		return
	}

	take(d, user, "NAXIS", int64(len(df.Shape)), "number of array dimensions")
	for i, n := range df.Shape {
		take(d, user, nth("NAXIS", i+1), int64(n), "")
	}
	if !h.Variant.primary() {
		take(d, user, "PCOUNT", int64(df.Param), "")
		take(d, user, "GCOUNT", int64(df.Group), "")
	}
}

func buildBintablePrefix(h *HDU, user *Deck, df DataFormat, o Options, fromKeys bool) error {
	var (
		fields []BinaryField
		err    error
	)
	if fromKeys && user.Has("TFIELDS") {
		fields, err = binaryFieldsFromKeys(user, o.Record, o.Warn)
	} else {
		fields, err = binaryFieldsFromData(h.Data, o.Record)
	}
	if err != nil {
		return err
	}

	recordLen := 0
	for _, f := range fields {
		recordLen += f.Slice.Width()
	}
	rows := 0
	if len(df.Shape) > 1 {
		rows = df.Shape[1]
	}
	if !fromKeys && len(df.Shape) > 0 {
		recordLen = df.Shape[0]
	}

	d := h.Cards
	name := "BINTABLE"
	if h.Variant != VariantBintable && h.Variant != VariantZImage && h.Variant != VariantZTable {
		name = h.Variant.String()
	}
	take(d, user, "XTENSION", user.stringDefault("XTENSION", name), "binary table extension")
	take(d, user, "BITPIX", int64(8), "array data type")
	take(d, user, "NAXIS", int64(2), "number of array dimensions")
	take(d, user, "NAXIS1", int64(recordLen), "record length in bytes")
	take(d, user, "NAXIS2", int64(rows), "number of records")
	take(d, user, "PCOUNT", int64(df.Param), "heap size in bytes")
	take(d, user, "GCOUNT", int64(1), "one data group")
	take(d, user, "TFIELDS", int64(len(fields)), "number of fields per record")

	named := false
	for _, f := range fields {
		if f.Name != "" && !syntheticName(f.Name) {
			named = true
			break
		}
	}
	for j, f := range fields {
		take(d, user, nth("TFORM", j+1), f.Form(), "")
		if named {
			take(d, user, nth("TTYPE", j+1), f.Name, "")
		}
	}
	return nil
}

func buildTablePrefix(h *HDU, user *Deck, df DataFormat, o Options, fromKeys bool) error {
	var (
		fields []TextField
		err    error
	)
	if fromKeys && user.Has("TFIELDS") {
		fields, err = textFieldsFromKeys(user)
	} else {
		fields, _, err = textFieldsFromData(h.Data)
	}
	if err != nil {
		return err
	}

	recordLen, rows := 0, 0
	if len(df.Shape) > 0 {
		recordLen = df.Shape[0]
	}
	if len(df.Shape) > 1 {
		rows = df.Shape[1]
	}

	d := h.Cards
	take(d, user, "XTENSION", "TABLE", "ASCII table extension")
	take(d, user, "BITPIX", int64(8), "character data")
	take(d, user, "NAXIS", int64(2), "number of array dimensions")
	take(d, user, "NAXIS1", int64(recordLen), "record length in characters")
	take(d, user, "NAXIS2", int64(rows), "number of records")
	take(d, user, "PCOUNT", int64(0), "no heap")
	take(d, user, "GCOUNT", int64(1), "one data group")
	take(d, user, "TFIELDS", int64(len(fields)), "number of fields per record")

	for j, f := range fields {
		take(d, user, nth("TBCOL", j+1), int64(f.Start), "")
		take(d, user, nth("TFORM", j+1), f.Form(), "")
		if f.Name != "" && !syntheticName(f.Name) {
			take(d, user, nth("TTYPE", j+1), f.Name, "")
		}
	}
	return nil
}

// syntheticName reports whether the name was generated for an anonymous
// column, which must not produce a TTYPE card.
func syntheticName(name string) bool {
	var n int
	if _, err := fmt.Sscanf(name, "column%d", &n); err == nil {
		return true
	}
	if _, err := fmt.Sscanf(name, "field%d", &n); err == nil {
		return true
	}
	return false
}

// zeroBody allocates the default body the header describes: zeros, empty
// strings or empty bit vectors.
func zeroBody(h *HDU, df DataFormat, o Options) (Body, error) {
	switch {
	case h.Variant == VariantRandom:
		groups := make(Groups, df.Group)
		for i := range groups {
			groups[i] = Group{
				Params: make([]float64, df.Param),
				Array:  NewArray(df.Type, df.Shape...),
			}
		}
		return groups, nil

	case h.Variant == VariantTable:
		fields, err := textFieldsFromKeys(h.Cards)
		if err != nil {
			return nil, err
		}
		rows := rowCount(df)
		cols := NewColumns()
		for _, f := range fields {
			cols.Add(f.Name, make([]string, rows))
		}
		return cols, nil

	case h.Variant.binaryTable():
		fields, err := binaryFieldsFromKeys(h.Cards, o.Record, o.Warn)
		if err != nil {
			return nil, err
		}
		cols := zeroColumns(fields, rowCount(df))
		if o.Record {
			return columnsToRecords(fields, cols), nil
		}
		return cols, nil

	default:
		return NewArray(df.Type, df.Shape...), nil
	}
}

func rowCount(df DataFormat) int {
	if len(df.Shape) > 1 {
		return df.Shape[1]
	}
	return 0
}

// zeroColumns builds a zero-valued column set for the given fields.
func zeroColumns(fields []BinaryField, rows int) *Columns {
	cols := NewColumns()
	for _, f := range fields {
		cols.Add(f.Name, zeroColumn(f, rows))
	}
	return cols
}

func zeroColumn(f BinaryField, rows int) any {
	switch {
	case f.Pntr != TypeNone:
		return emptyNested(f.Type, rows)
	case f.Type == TypeString:
		return make([]string, rows)
	case f.Type == TypeBits:
		out := make([]BitVector, rows)
		for i := range out {
			out[i] = make(BitVector, f.Leng)
		}
		return out
	case f.Leng > 1:
		return zeroNested(f.Type, rows, f.Leng)
	default:
		return makeSlice(f.Type, rows)
	}
}

func emptyNested(t Type, rows int) any {
	return zeroNested(t, rows, 0)
}

func zeroNested(t Type, rows, width int) any {
	switch t {
	case TypeUint8:
		return fillNested[uint8](rows, width)
	case TypeInt16:
		return fillNested[int16](rows, width)
	case TypeInt32:
		return fillNested[int32](rows, width)
	case TypeInt64:
		return fillNested[int64](rows, width)
	case TypeFloat32:
		return fillNested[float32](rows, width)
	case TypeFloat64:
		return fillNested[float64](rows, width)
	case TypeComplex64:
		return fillNested[complex64](rows, width)
	case TypeComplex128:
		return fillNested[complex128](rows, width)
	case TypeBool:
		return fillNested[bool](rows, width)
	default:
		return fillNested[uint8](rows, width)
	}
}

func fillNested[T any](rows, width int) [][]T {
	out := make([][]T, rows)
	for i := range out {
		out[i] = make([]T, width)
	}
	return out
}

// convertTableBody normalizes the binary-table body to the representation
// the record option selects.
func convertTableBody(h *HDU, o Options) (Body, error) {
	fields, err := h.fieldsWith(o)
	if err != nil {
		return nil, err
	}
	switch d := h.Data.(type) {
	case *Columns:
		if o.Record {
			return columnsToRecords(fields, d), nil
		}
		return d, nil
	case Records:
		if !o.Record {
			return recordsToColumns(fields, d), nil
		}
		return d, nil
	default:
		return h.Data, nil
	}
}

// columnsToRecords flips a column set into per-row records keyed by field
// name.
func columnsToRecords(fields []BinaryField, cols *Columns) Records {
	rows := cols.Rows()
	out := make(Records, rows)
	for i := range out {
		r := make(Record, len(fields))
		for _, f := range fields {
			r[f.Name] = cellAt(cols.Col(f.Name), i)
		}
		out[i] = r
	}
	return out
}

// recordsToColumns flips row records into a column set in field order.
func recordsToColumns(fields []BinaryField, rows Records) *Columns {
	cols := NewColumns()
	for _, f := range fields {
		cols.Add(f.Name, columnFromRecords(rows, f.Name))
	}
	return cols
}

// cellAt extracts row i from a column slice of any supported shape.
func cellAt(data any, i int) any {
	switch d := data.(type) {
	case []uint8:
		return d[i]
	case []int16:
		return d[i]
	case []int32:
		return d[i]
	case []int64:
		return d[i]
	case []float32:
		return d[i]
	case []float64:
		return d[i]
	case []complex64:
		return d[i]
	case []complex128:
		return d[i]
	case []bool:
		return d[i]
	case []string:
		return d[i]
	case []BitVector:
		return d[i]
	case [][]uint8:
		return d[i]
	case [][]int16:
		return d[i]
	case [][]int32:
		return d[i]
	case [][]int64:
		return d[i]
	case [][]float32:
		return d[i]
	case [][]float64:
		return d[i]
	case [][]complex64:
		return d[i]
	case [][]complex128:
		return d[i]
	case [][]bool:
		return d[i]
	default:
		return nil
	}
}
