package fits

// warnFunc receives verifier diagnostics. The verifier never fails: every
// discrepancy between header and data is repaired in place. A card whose
// value disagrees is reported; a missing card is added without a warning.
type warnFunc = func(msg string, args ...any)

// repairHeader reconciles the mandatory geometry cards with a freshly
// computed DataFormat. Mismatched cards are overwritten with the computed
// values so a write is always internally consistent.
func repairHeader(v Variant, d *Deck, df DataFormat, warn warnFunc) {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	repairInt := func(key string, want int64, comment string) {
		got, ok := d.GetDefault(key, nil).(int64)
		if ok && got == want {
			return
		}
		if ok {
			warn("header does not match data, repairing", "key", key, "header", got, "data", want)
		}
		d.Put(key, want, comment)
	}

	repairInt("BITPIX", typeBitpix[df.Type], "array data type")

	// Random groups keep their leading zero axis in front of the data shape.
	axes := df.Shape
	if v == VariantRandom {
		axes = append([]int{0}, axes...)
	}
	repairInt("NAXIS", int64(len(axes)), "number of array dimensions")
	for i, n := range axes {
		repairInt(nth("NAXIS", i+1), int64(n), "")
	}
	// Drop stale axis cards beyond the current dimensionality.
	for i := len(axes) + 1; d.Has(nth("NAXIS", i)); i++ {
		d.Pop(nth("NAXIS", i), nil)
	}

	if !v.primary() || v == VariantRandom || d.Has("PCOUNT") || d.Has("GCOUNT") {
		repairInt("PCOUNT", int64(df.Param), "")
		repairInt("GCOUNT", int64(df.Group), "")
	}
}
