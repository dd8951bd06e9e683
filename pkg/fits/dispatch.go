package fits

import "strings"

// Dispatch selects the concrete HDU variant from an optional data object and
// an optional mandatory-keys mapping. Keys win over data: an explicit
// XTENSION or SIMPLE describes intent even when data is also supplied.
//
// Dispatch is total on its documented domain: it returns a variant or
// ErrUnknownHDU.
func Dispatch(data any, mankeys map[string]any) (Variant, error) {
	if x, ok := mankeys["XTENSION"]; ok {
		name, _ := x.(string)
		v, ok := xtensionVariant[strings.TrimRight(name, " ")]
		if !ok {
			return VariantConform, nil
		}
		if v == VariantBintable {
			if b, _ := mankeys["ZIMAGE"].(bool); b {
				return VariantZImage, nil
			}
			if b, _ := mankeys["ZTABLE"].(bool); b {
				return VariantZTable, nil
			}
		}
		return v, nil
	}

	if simple, _ := mankeys["SIMPLE"].(bool); simple {
		groups, _ := mankeys["GROUPS"].(bool)
		if groups && intValue(mankeys["NAXIS1"]) == 0 {
			return VariantRandom, nil
		}
		return VariantPrimary, nil
	}

	if data != nil {
		return dispatchData(data)
	}
	return VariantUnknown, ErrUnknownHDU
}

func dispatchData(data any) (Variant, error) {
	switch d := data.(type) {
	case *Array:
		return VariantPrimary, nil
	case Groups, Group, []Group:
		return VariantRandom, nil
	case Records:
		if len(d) == 0 {
			return VariantBintable, nil
		}
		return dispatchData(d[0])
	case []Record:
		return dispatchData(Records(d))
	case Record:
		return VariantBintable, nil
	case *Columns:
		if allStrings(d) {
			return VariantTable, nil
		}
		return VariantBintable, nil
	case []string:
		return VariantTable, nil
	default:
		// Bare numeric slices count as array data.
		if t, _, ok := sliceInfo(data); ok && t.numeric() {
			return VariantPrimary, nil
		}
		return VariantConform, nil
	}
}

// allStrings reports whether every column holds text, which selects the
// ASCII table variant.
func allStrings(c *Columns) bool {
	if len(c.Names()) == 0 {
		return false
	}
	for _, name := range c.Names() {
		if _, ok := c.Col(name).([]string); !ok {
			return false
		}
	}
	return true
}

func intValue(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}
