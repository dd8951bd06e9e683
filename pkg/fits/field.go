package fits

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Span is a 1-based inclusive byte range within one table record.
type Span struct {
	Begin int
	End   int
}

// Width returns the byte width of the span.
func (s Span) Width() int { return s.End - s.Begin + 1 }

// BinaryField is the per-column layout of a binary table: where the column's
// bytes live within a record, how to type them, and the reserved-keyword
// annotations that qualify the values.
type BinaryField struct {
	Name string
	// Pntr is the variable-array pointer width: TypeUint32 for P, TypeUint64
	// for Q, TypeNone for an inline column.
	Pntr Type
	Type Type
	// Slice is the column's byte range within one record.
	Slice Span
	// Leng is the repeat count.
	Leng int
	// Supp is the opaque parenthesized payload of TFORM (array-descriptor
	// hint such as the maximum element count of a variable column).
	Supp string

	Unit string
	Disp string
	Dims []int

	// Zero/Scale describe the linear transform zero + scale*value. Scaled is
	// false for logical, bit and string columns, which take no transform.
	Zero   float64
	Scale  float64
	Scaled bool

	// Null is the integer sentinel for missing values, when declared.
	Null *int64

	DMin, DMax *float64
	LMin, LMax *float64
}

// Width returns the on-disk byte width of the column within one record.
func (f BinaryField) Width() int {
	return fieldWidth(f.Pntr, f.Type, f.Leng)
}

func fieldWidth(pntr, typ Type, repeat int) int {
	switch {
	case pntr != TypeNone:
		// Count plus offset, each of the pointer width.
		return 2 * pntr.Size()
	case typ == TypeBits:
		return (repeat + 7) / 8
	case typ == TypeString:
		return repeat
	default:
		return repeat * typ.Size()
	}
}

// Form renders the TFORM value for the field.
func (f BinaryField) Form() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(f.Leng))
	switch f.Pntr {
	case TypeUint32:
		b.WriteByte('P')
	case TypeUint64:
		b.WriteByte('Q')
	}
	b.WriteByte(typeForm[f.Type])
	b.WriteString(f.Supp)
	return b.String()
}

// tformRe is the binary-table TFORM grammar: optional repeat, optional
// variable-array pointer flag, type code, optional parenthesized payload.
var tformRe = regexp.MustCompile(`^(\d*)([PQ]?)([LXBIJKAEDCM])(\([^)]*\))?$`)

// parseTForm decodes one TFORM value. col is the 1-based column for error
// reporting; warn receives the P/Q repeat clamp notice.
func parseTForm(form string, col int, warn func(msg string, args ...any)) (BinaryField, error) {
	m := tformRe.FindStringSubmatch(strings.TrimSpace(form))
	if m == nil {
		return BinaryField{}, &FieldError{Column: col, Reason: fmt.Sprintf("TFORM %q does not match the descriptor grammar", form)}
	}

	repeat := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return BinaryField{}, &FieldError{Column: col, Reason: fmt.Sprintf("bad repeat in %q", form)}
		}
		repeat = n
	}

	f := BinaryField{Type: formType[m[3][0]], Leng: repeat, Supp: m[4]}
	switch m[2] {
	case "P":
		f.Pntr = TypeUint32
	case "Q":
		f.Pntr = TypeUint64
	}

	if f.Pntr != TypeNone && repeat != 0 && repeat != 1 {
		if warn != nil {
			warn("variable-array column repeat clamped to 1", "column", col, "tform", form)
		}
		f.Leng = 1
	}
	return f, nil
}

// binaryFieldsFromKeys builds the column descriptors of a binary table from
// TFIELDS and the TFORMn/TTYPEn families, placing columns contiguously from
// byte 1 in declaration order.
func binaryFieldsFromKeys(d *Deck, record bool, warn func(msg string, args ...any)) ([]BinaryField, error) {
	n := int(d.intDefault("TFIELDS", 0))
	fields := make([]BinaryField, 0, n)
	offset := 0

	for j := 1; j <= n; j++ {
		form, err := d.Get(nth("TFORM", j))
		if err != nil {
			return nil, &FieldError{Column: j, Reason: "missing TFORM"}
		}
		s, ok := form.(string)
		if !ok {
			return nil, &FieldError{Column: j, Reason: "TFORM is not a string"}
		}
		f, err := parseTForm(s, j, warn)
		if err != nil {
			return nil, err
		}

		f.Name = columnName(d, j, record)
		f.Unit = strings.TrimRight(d.stringDefault(nth("TUNIT", j), ""), " ")
		f.Disp = strings.TrimRight(d.stringDefault(nth("TDISP", j), ""), " ")
		f.Dims = parseTDim(d.stringDefault(nth("TDIM", j), ""))

		if f.Type.numeric() {
			f.Scaled = true
			f.Zero = d.floatDefault(nth("TZERO", j), 0)
			f.Scale = d.floatDefault(nth("TSCAL", j), 1)
		}
		if v, ok := d.GetDefault(nth("TNULL", j), nil).(int64); ok {
			f.Null = &v
		}
		f.DMin = floatPtr(d, nth("TDMIN", j))
		f.DMax = floatPtr(d, nth("TDMAX", j))
		f.LMin = floatPtr(d, nth("TLMIN", j))
		f.LMax = floatPtr(d, nth("TLMAX", j))

		w := f.Width()
		f.Slice = Span{Begin: offset + 1, End: offset + w}
		offset += w
		fields = append(fields, f)
	}
	return fields, nil
}

func columnName(d *Deck, j int, record bool) string {
	if s := strings.TrimRight(d.stringDefault(nth("TTYPE", j), ""), " "); s != "" {
		return s
	}
	if record {
		return fmt.Sprintf("field%d", j)
	}
	return fmt.Sprintf("column%d", j)
}

func floatPtr(d *Deck, key string) *float64 {
	switch v := d.GetDefault(key, nil).(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

// parseTDim decodes the "(a,b,...)" TDIM value; malformed values yield nil.
func parseTDim(s string) []int {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	dims := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil
		}
		dims = append(dims, n)
	}
	return dims
}

// binaryFieldsFromData infers column descriptors from a Columns or Records
// body: element type, repeat and width per field.
func binaryFieldsFromData(data Body, record bool) ([]BinaryField, error) {
	var (
		names []string
		col   func(name string) any
	)

	switch d := data.(type) {
	case *Columns:
		names = d.Names()
		col = d.Col
	case Records:
		if len(d) == 0 {
			return nil, nil
		}
		names = recordFieldNames(d[0])
		col = func(name string) any { return columnFromRecords(d, name) }
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("fits: cannot infer fields from %T", data)
	}

	fields := make([]BinaryField, 0, len(names))
	offset := 0
	for j, name := range names {
		f, err := fieldFromColumn(name, col(name), j+1)
		if err != nil {
			return nil, err
		}
		w := f.Width()
		f.Slice = Span{Begin: offset + 1, End: offset + w}
		offset += w
		fields = append(fields, f)
	}
	return fields, nil
}

// fieldFromColumn classifies one column's data. Equal-length nested slices
// become fixed repeat arrays; ragged ones become variable-array columns.
func fieldFromColumn(name string, data any, col int) (BinaryField, error) {
	t, _, ok := sliceInfo(data)
	if !ok {
		return BinaryField{}, &FieldError{Column: col, Reason: fmt.Sprintf("unsupported column data %T", data)}
	}
	f := BinaryField{Name: name, Type: t, Leng: 1}
	if t.numeric() {
		f.Scaled = true
		f.Scale = 1
	}

	switch d := data.(type) {
	case []string:
		f.Leng = maxLen(d)
	case []BitVector:
		for _, v := range d {
			if len(v) > f.Leng {
				f.Leng = len(v)
			}
		}
	default:
		if nested(data) {
			fixed, width := nestedWidths(data)
			if fixed {
				f.Leng = width
			} else {
				f.Pntr = TypeUint32
				f.Supp = fmt.Sprintf("(%d)", width)
			}
		}
	}
	return f, nil
}

func maxLen(ss []string) int {
	n := 0
	for _, s := range ss {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

// nestedWidths reports whether every row slice has the same length, plus the
// maximum length seen.
func nestedWidths(data any) (fixed bool, max int) {
	lens := rowLens(data)
	fixed = true
	for i, n := range lens {
		if n > max {
			max = n
		}
		if i > 0 && n != lens[0] {
			fixed = false
		}
	}
	return fixed, max
}

func rowLens(data any) []int {
	switch d := data.(type) {
	case [][]uint8:
		return sliceLens(d)
	case [][]int16:
		return sliceLens(d)
	case [][]int32:
		return sliceLens(d)
	case [][]int64:
		return sliceLens(d)
	case [][]float32:
		return sliceLens(d)
	case [][]float64:
		return sliceLens(d)
	case [][]complex64:
		return sliceLens(d)
	case [][]complex128:
		return sliceLens(d)
	case [][]bool:
		return sliceLens(d)
	default:
		return nil
	}
}

func sliceLens[T any](rows [][]T) []int {
	lens := make([]int, len(rows))
	for i, r := range rows {
		lens[i] = len(r)
	}
	return lens
}

// recordFieldNames returns a record's field names in a deterministic order.
func recordFieldNames(r Record) []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// columnFromRecords lifts one named field out of a record sequence into a
// column slice so field inference can treat both modes alike.
func columnFromRecords(rows Records, name string) any {
	if len(rows) == 0 {
		return nil
	}
	switch rows[0][name].(type) {
	case string:
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i], _ = r[name].(string)
		}
		return out
	case BitVector:
		out := make([]BitVector, len(rows))
		for i, r := range rows {
			out[i], _ = r[name].(BitVector)
		}
		return out
	case bool:
		out := make([]bool, len(rows))
		for i, r := range rows {
			out[i], _ = r[name].(bool)
		}
		return out
	case uint8:
		return scalarColumn[uint8](rows, name)
	case int16:
		return scalarColumn[int16](rows, name)
	case int32:
		return scalarColumn[int32](rows, name)
	case int64:
		return scalarColumn[int64](rows, name)
	case float32:
		return scalarColumn[float32](rows, name)
	case float64:
		return scalarColumn[float64](rows, name)
	case complex64:
		return scalarColumn[complex64](rows, name)
	case complex128:
		return scalarColumn[complex128](rows, name)
	case []uint8:
		return nestedColumn[uint8](rows, name)
	case []int16:
		return nestedColumn[int16](rows, name)
	case []int32:
		return nestedColumn[int32](rows, name)
	case []int64:
		return nestedColumn[int64](rows, name)
	case []float32:
		return nestedColumn[float32](rows, name)
	case []float64:
		return nestedColumn[float64](rows, name)
	case []complex64:
		return nestedColumn[complex64](rows, name)
	case []complex128:
		return nestedColumn[complex128](rows, name)
	case []bool:
		return nestedColumn[bool](rows, name)
	default:
		return nil
	}
}

func scalarColumn[T any](rows Records, name string) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i], _ = r[name].(T)
	}
	return out
}

func nestedColumn[T any](rows Records, name string) [][]T {
	out := make([][]T, len(rows))
	for i, r := range rows {
		out[i], _ = r[name].([]T)
	}
	return out
}
