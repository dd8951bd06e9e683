package fits

import "fmt"

// DataFormat summarizes an HDU body's on-disk geometry. It is derived either
// from the mandatory header keys or from the data itself, and is recomputed
// whenever cards or data change — never cached.
type DataFormat struct {
	// Type is the on-disk primitive element type.
	Type Type
	// Leng is the total element count on disk: Group * (Param + prod(Shape)).
	Leng int
	// Shape lists the dimension extents, innermost (NAXIS1) first.
	Shape []int
	// Param is PCOUNT: per-group parameters for random groups, heap bytes
	// for binary tables.
	Param int
	// Group is GCOUNT, the outer replication count.
	Group int
	// Heap is the byte offset of the heap area from the body start.
	Heap int
}

// dataFormatFromKeys derives geometry from the mandatory header keys of the
// given variant.
func dataFormatFromKeys(v Variant, d *Deck) DataFormat {
	fallback := int64(32)
	if v.tabular() || v == VariantDump || v == VariantForeign {
		fallback = 8
	}
	typ, ok := bitpixType[d.intDefault("BITPIX", fallback)]
	if !ok {
		typ = bitpixType[fallback]
	}

	naxis := int(d.intDefault("NAXIS", 0))
	shape := make([]int, 0, naxis)
	for i := 1; i <= naxis; i++ {
		shape = append(shape, int(d.intDefault(nth("NAXIS", i), 0)))
	}

	if v == VariantRandom && len(shape) > 0 && shape[0] == 0 {
		// Random groups carry NAXIS1 = 0; the real array starts at NAXIS2.
		shape = shape[1:]
	}

	param := int(d.intDefault("PCOUNT", 0))
	group := int(d.intDefault("GCOUNT", 1))

	// A dimensionless body holds no elements; the empty product is not 1 here.
	n := prod(shape)
	if len(shape) == 0 {
		n = 0
	}

	df := DataFormat{
		Type:  typ,
		Shape: shape,
		Param: param,
		Group: group,
		Leng:  group * (param + n),
	}
	if v.binaryTable() {
		df.Heap = int(d.intDefault("THEAP", int64(typ.Size()*n)))
	}
	return df
}

// dataFormatFromData derives geometry from a body object for the given
// variant. Tabular variants take their record length from the field
// descriptors computed alongside.
func dataFormatFromData(v Variant, data Body) (DataFormat, error) {
	switch v {
	case VariantRandom:
		g, ok := data.(Groups)
		if !ok {
			return DataFormat{}, fmt.Errorf("fits: random groups need a Groups body, got %T", data)
		}
		if len(g) == 0 {
			return DataFormat{Type: TypeFloat32, Group: 0}, nil
		}
		shape := g[0].Array.Shape
		param := len(g[0].Params)
		return DataFormat{
			Type:  g[0].Array.Type,
			Shape: append([]int(nil), shape...),
			Param: param,
			Group: len(g),
			Leng:  len(g) * (param + prod(shape)),
		}, nil

	case VariantTable:
		tf, rows, err := textFieldsFromData(data)
		if err != nil {
			return DataFormat{}, err
		}
		recordLen := 0
		if n := len(tf); n > 0 {
			recordLen = tf[n-1].Start + tf[n-1].Width - 1
		}
		return DataFormat{
			Type:  TypeUint8,
			Shape: []int{recordLen, rows},
			Group: 1,
			Leng:  recordLen * rows,
		}, nil

	case VariantBintable, VariantA3DTable, VariantZImage, VariantZTable:
		fields, rows, err := fieldsAndRows(data)
		if err != nil {
			return DataFormat{}, err
		}
		recordLen := 0
		for _, f := range fields {
			recordLen += f.Slice.Width()
		}
		param := heapSize(fields, data, rows)
		df := DataFormat{
			Type:  TypeUint8,
			Shape: []int{recordLen, rows},
			Param: param,
			Group: 1,
			Leng:  recordLen*rows + param,
		}
		if param > 0 {
			df.Heap = recordLen * rows
		}
		return df, nil

	default:
		a, ok := data.(*Array)
		if !ok {
			if t, n, ok := sliceInfo(data); ok {
				return DataFormat{Type: t, Shape: []int{n}, Group: 1, Leng: n}, nil
			}
			if data == nil {
				return DataFormat{Type: bitpixType[32], Group: 1}, nil
			}
			return DataFormat{}, fmt.Errorf("fits: %s needs an array body, got %T", v, data)
		}
		return DataFormat{
			Type:  a.Type,
			Shape: append([]int(nil), a.Shape...),
			Group: 1,
			Leng:  a.Len(),
		}, nil
	}
}

func fieldsAndRows(data Body) ([]BinaryField, int, error) {
	fields, err := binaryFieldsFromData(data, false)
	if err != nil {
		return nil, 0, err
	}
	rows := 0
	switch d := data.(type) {
	case *Columns:
		rows = d.Rows()
	case Records:
		rows = len(d)
	}
	return fields, rows, nil
}

// heapSize totals the variable-array payload bytes of the body so PCOUNT is
// known before any bytes are written.
func heapSize(fields []BinaryField, data Body, rows int) int {
	total := 0
	for _, f := range fields {
		if f.Pntr == TypeNone {
			continue
		}
		col := columnData(data, f.Name)
		for i := 0; i < rows; i++ {
			total += flatLen(cellAt(col, i)) * f.Type.Size()
		}
	}
	return total
}

func columnData(data Body, name string) any {
	switch d := data.(type) {
	case *Columns:
		return d.Col(name)
	case Records:
		return columnFromRecords(d, name)
	default:
		return nil
	}
}
