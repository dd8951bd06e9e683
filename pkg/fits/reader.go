package fits

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samcharles93/fits/internal/blockio"
	"github.com/samcharles93/fits/pkg/card"
)

// ReadHDU deserializes the next HDU from the stream. A clean end of stream
// (EOF on a block boundary before any card) returns io.EOF; EOF inside a
// header returns ErrHeaderTruncated. On any error the stream position is
// indeterminate and the reader must not be reused.
func ReadHDU(r io.Reader, opts ...Option) (*HDU, error) {
	o := applyOptions(opts)

	deck, mankeys, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	variant, err := Dispatch(nil, mankeys)
	if err != nil {
		return nil, err
	}
	df := dataFormatFromKeys(variant, deck)

	h := &HDU{Variant: variant, Cards: deck}
	h.Data, err = readBody(r, variant, deck, df, o)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ReadAll deserializes HDUs until the stream ends.
func ReadAll(r io.Reader, opts ...Option) ([]*HDU, error) {
	var hdus []*HDU
	for {
		h, err := ReadHDU(r, opts...)
		if errors.Is(err, io.EOF) {
			return hdus, nil
		}
		if err != nil {
			return hdus, err
		}
		hdus = append(hdus, h)
	}
}

// readHeader consumes 2880-byte blocks of 80-byte cards up to and including
// the END card's block. Mandatory keywords are routed into a side map for
// the dispatcher; CONTINUE cards are folded into the preceding long string.
func readHeader(r io.Reader) (*Deck, map[string]any, error) {
	deck := NewDeck()
	mankeys := make(map[string]any)
	block := make([]byte, blockio.BlockSize)
	first := true

	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if first && err == io.EOF {
				return nil, nil, io.EOF
			}
			return nil, nil, fmt.Errorf("%w: %v", ErrHeaderTruncated, err)
		}
		first = false

		for i := 0; i < blockio.CardsPerBlock; i++ {
			line := string(block[i*80 : (i+1)*80])
			c, err := card.Parse(line)
			if err != nil {
				return nil, nil, fmt.Errorf("fits: card %d: %w", deck.Len()+1, err)
			}

			if c.Key == "END" {
				// The rest of the block is padding; it was already consumed.
				return deck, mankeys, nil
			}
			if c.Key == "" && c.Value == nil && c.Comment == "" {
				continue
			}

			if c.Key == "CONTINUE" {
				if merged := continueString(deck, c); merged {
					continue
				}
			}

			deck.Append(c)
			if IsMandatory(c.Key) {
				if _, ok := mankeys[c.Key]; !ok {
					mankeys[c.Key] = c.Value
				}
			}
		}
	}
}

// continueString folds a CONTINUE card into the preceding card when that
// card's string value ends in the '&' marker.
func continueString(d *Deck, c card.Card) bool {
	if d.Len() == 0 {
		return false
	}
	last := &d.Cards()[d.Len()-1]
	prev, ok := last.Value.(string)
	if !ok || !strings.HasSuffix(prev, "&") {
		return false
	}
	cont, _ := c.Value.(string)
	last.Value = strings.TrimSuffix(prev, "&") + cont
	if c.Comment != "" {
		last.Comment = c.Comment
	}
	return true
}

func readBody(r io.Reader, v Variant, deck *Deck, df DataFormat, o Options) (Body, error) {
	switch {
	case v == VariantRandom:
		return readGroups(r, df)
	case v == VariantTable:
		return readASCIITable(r, deck, df)
	case v.binaryTable():
		return readBintable(r, deck, df, o)
	default:
		return readArray(r, df)
	}
}

// readArray reads an image-like body: Leng big-endian elements followed by
// zero padding to the block boundary.
func readArray(r io.Reader, df DataFormat) (Body, error) {
	if df.Leng == 0 {
		return nil, nil
	}
	raw := make([]byte, df.Leng*df.Type.Size())
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrStream, err)
	}
	if err := blockio.Discard(r, blockio.Pad(int64(len(raw)))); err != nil {
		return nil, fmt.Errorf("%w: body padding: %w", ErrStream, err)
	}
	return &Array{Type: df.Type, Shape: df.Shape, Data: decodeSlice(raw, df.Type, df.Leng)}, nil
}

// readGroups reads GCOUNT repetitions of PCOUNT parameters followed by one
// array each.
func readGroups(r io.Reader, df DataFormat) (Body, error) {
	if df.Leng == 0 {
		return nil, nil
	}
	size := df.Type.Size()
	raw := make([]byte, df.Leng*size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: groups: %w", ErrStream, err)
	}
	if err := blockio.Discard(r, blockio.Pad(int64(len(raw)))); err != nil {
		return nil, fmt.Errorf("%w: groups padding: %w", ErrStream, err)
	}

	n := prod(df.Shape)
	groups := make(Groups, df.Group)
	off := 0
	for g := range groups {
		params := scaleSlice(decodeSlice(raw[off:], df.Type, df.Param), 0, 1)
		off += df.Param * size
		data := decodeSlice(raw[off:], df.Type, n)
		off += n * size
		groups[g] = Group{
			Params: params,
			Array:  &Array{Type: df.Type, Shape: append([]int(nil), df.Shape...), Data: data},
		}
	}
	return groups, nil
}

// readASCIITable reads the fixed-column text matrix and parses each field
// per its edit descriptor.
func readASCIITable(r io.Reader, deck *Deck, df DataFormat) (Body, error) {
	fields, err := textFieldsFromKeys(deck)
	if err != nil {
		return nil, err
	}
	recordLen, rows := tableShape(df)
	raw := make([]byte, recordLen*rows)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: table: %w", ErrStream, err)
	}
	if err := blockio.Discard(r, blockio.Pad(int64(len(raw)))); err != nil {
		return nil, fmt.Errorf("%w: table padding: %w", ErrStream, err)
	}

	cols := NewColumns()
	for _, f := range fields {
		cols.Add(f.Name, parseTextColumn(f, raw, recordLen, rows))
	}
	return cols, nil
}

func parseTextColumn(f TextField, raw []byte, recordLen, rows int) any {
	cell := func(row int) string {
		start := row*recordLen + f.Start - 1
		return string(raw[start : start+f.Width])
	}
	switch f.Code {
	case 'I':
		out := make([]int64, rows)
		for i := range out {
			out[i] = parseTextCell(f, cell(i)).(int64)
		}
		return out
	case 'F', 'E', 'D':
		out := make([]float64, rows)
		for i := range out {
			out[i] = parseTextCell(f, cell(i)).(float64)
		}
		return out
	default:
		out := make([]string, rows)
		for i := range out {
			out[i] = parseTextCell(f, cell(i)).(string)
		}
		return out
	}
}

// readBintable reads the record matrix, the heap, and decodes the columns.
func readBintable(r io.Reader, deck *Deck, df DataFormat, o Options) (Body, error) {
	fields, err := binaryFieldsFromKeys(deck, o.Record, o.Warn)
	if err != nil {
		return nil, err
	}
	recordLen, rows := tableShape(df)

	main := make([]byte, recordLen*rows)
	if _, err := io.ReadFull(r, main); err != nil {
		return nil, fmt.Errorf("%w: bintable: %w", ErrStream, err)
	}

	// The heap region spans the PCOUNT bytes after the main table; variable
	// array offsets are relative to THEAP from the body start.
	var heap []byte
	if df.Param > 0 {
		suffix := make([]byte, df.Param)
		if _, err := io.ReadFull(r, suffix); err != nil {
			return nil, fmt.Errorf("%w: heap: %w", ErrStream, err)
		}
		skip := df.Heap - len(main)
		if skip < 0 || skip > len(suffix) {
			skip = 0
		}
		heap = suffix[skip:]
	}
	if err := blockio.Discard(r, blockio.Pad(int64(len(main)+df.Param))); err != nil {
		return nil, fmt.Errorf("%w: bintable padding: %w", ErrStream, err)
	}

	cols := NewColumns()
	for _, f := range fields {
		col, err := decodeColumn(f, main, recordLen, rows, heap, o.Scale)
		if err != nil {
			return nil, err
		}
		cols.Add(f.Name, col)
	}
	if o.Record {
		return columnsToRecords(fields, cols), nil
	}
	return cols, nil
}

func tableShape(df DataFormat) (recordLen, rows int) {
	if len(df.Shape) > 0 {
		recordLen = df.Shape[0]
	}
	if len(df.Shape) > 1 {
		rows = df.Shape[1]
	}
	return recordLen, rows
}
