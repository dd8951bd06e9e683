// Package fits implements the HDU layer of the FITS container format:
// variant dispatch, header/data geometry, binary-table field descriptors,
// header verification, and the byte-exact codec for reading and writing
// header-data units in 2880-byte blocks.
//
// The 80-byte card grammar itself lives in pkg/card; this package treats
// cards as opaque key/value pairs held in a Deck.
package fits

// HDU is one header-data unit: a variant tag, an ordered card deck, and an
// optional body. The deck never holds an END card; END is implied and only
// written out by the codec.
//
// Geometry descriptors (DataFormat, BinaryField) are recomputed from the
// cards or the data whenever needed and are never stored on the HDU.
type HDU struct {
	Variant Variant
	Cards   *Deck
	Data    Body
}

// Name returns the EXTNAME value, or the variant name.
func (h *HDU) Name() string {
	if h.Cards != nil {
		if s := h.Cards.stringDefault("EXTNAME", ""); s != "" {
			return s
		}
	}
	return h.Variant.String()
}

// Format computes the current data geometry of the HDU. Cards win over data
// when both are present, mirroring construction precedence.
func (h *HDU) Format() DataFormat {
	if h.Cards != nil && (h.Cards.Has("BITPIX") || h.Cards.Has("NAXIS")) {
		return dataFormatFromKeys(h.Variant, h.Cards)
	}
	df, _ := dataFormatFromData(h.Variant, h.Data)
	return df
}

// Fields computes the per-column descriptors of a tabular HDU. Non-tabular
// variants return nil.
func (h *HDU) Fields(opts ...Option) ([]BinaryField, error) {
	return h.fieldsWith(applyOptions(opts))
}

func (h *HDU) fieldsWith(o Options) ([]BinaryField, error) {
	if !h.Variant.tabular() {
		return nil, nil
	}
	if h.Variant == VariantTable {
		return h.textFieldView()
	}
	if h.Cards != nil && h.Cards.Has("TFIELDS") {
		return binaryFieldsFromKeys(h.Cards, o.Record, o.Warn)
	}
	return binaryFieldsFromData(h.Data, o.Record)
}

// textFieldView presents ASCII-table columns through the BinaryField shape
// so tooling can treat both table kinds alike.
func (h *HDU) textFieldView() ([]BinaryField, error) {
	var (
		tfs []TextField
		err error
	)
	if h.Cards != nil && h.Cards.Has("TFIELDS") {
		tfs, err = textFieldsFromKeys(h.Cards)
	} else {
		tfs, _, err = textFieldsFromData(h.Data)
	}
	if err != nil {
		return nil, err
	}
	fields := make([]BinaryField, 0, len(tfs))
	for _, tf := range tfs {
		fields = append(fields, BinaryField{
			Name:  tf.Name,
			Type:  tf.Type(),
			Leng:  tf.Width,
			Slice: Span{Begin: tf.Start, End: tf.Start + tf.Width - 1},
			Unit:  tf.Unit,
			Disp:  tf.Form(),
		})
	}
	return fields, nil
}
