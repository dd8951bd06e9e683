package fits

import (
	"strconv"
	"strings"
)

// Mandatory and reserved keyword sets. Indexed keywords (NAXISn, TFORMn, ...)
// are matched on their base after stripping the trailing digits.

var mandatoryKeys = map[string]struct{}{
	"END":      {},
	"SIMPLE":   {},
	"XTENSION": {},
	"BITPIX":   {},
	"NAXIS":    {},
	"GROUPS":   {},
	"PCOUNT":   {},
	"GCOUNT":   {},
	"THEAP":    {},
	"TFIELDS":  {},
	"TFORM":    {},
	"TBCOL":    {},
	// Tiled-compression convention.
	"ZIMAGE":   {},
	"ZTABLE":   {},
	"ZSIMPLE":  {},
	"ZTENSION": {},
	"ZBITPIX":  {},
	"ZNAXIS":   {},
	"ZCMPTYPE": {},
	"ZPCOUNT":  {},
	"ZGCOUNT":  {},
	"ZTILE":    {},
	"ZEXTEND":  {},
	"ZBLOCKED": {},
}

var reservedKeys = map[string]struct{}{
	"DATE":     {},
	"ORIGIN":   {},
	"AUTHOR":   {},
	"OBSERVER": {},
	"TELESCOP": {},
	"BSCALE":   {},
	"BZERO":    {},
	"BUNIT":    {},
	"BLANK":    {},
	"DATAMAX":  {},
	"DATAMIN":  {},
	"TSCAL":    {},
	"TZERO":    {},
	"TNULL":    {},
	"TTYPE":    {},
	"TUNIT":    {},
	"TDISP":    {},
	"TDIM":     {},
	"TDMAX":    {},
	"TDMIN":    {},
	"TLMAX":    {},
	"TLMIN":    {},
	// Tiled-compression reserved set.
	"ZNAME":    {},
	"ZVAL":     {},
	"ZMASKCMP": {},
	"ZQUANTIZ": {},
	"ZDITHER0": {},
}

// baseKey strips the trailing decimal index from a keyword, so NAXIS12 and
// TFORM3 match their base entries.
func baseKey(key string) string {
	end := len(key)
	for end > 0 && key[end-1] >= '0' && key[end-1] <= '9' {
		end--
	}
	return key[:end]
}

// IsMandatory reports whether key belongs to the mandatory set.
func IsMandatory(key string) bool {
	key = strings.ToUpper(strings.TrimSpace(key))
	if _, ok := mandatoryKeys[key]; ok {
		return true
	}
	_, ok := mandatoryKeys[baseKey(key)]
	return ok
}

// IsReserved reports whether key belongs to the reserved set.
func IsReserved(key string) bool {
	key = strings.ToUpper(strings.TrimSpace(key))
	if _, ok := reservedKeys[key]; ok {
		return true
	}
	_, ok := reservedKeys[baseKey(key)]
	return ok
}

// nth concatenates a keyword base with a 1-based column or axis index.
func nth(base string, n int) string {
	return base + strconv.Itoa(n)
}
