package fits

import (
	"fmt"
	"strings"
)

// TDISP-driven cell formatting for table columns.

// defaultDisp is the display descriptor used when a column has no TDISP.
func defaultDisp(t Type, repeat int) string {
	switch t {
	case TypeString:
		return fmt.Sprintf("A%d", repeat)
	case TypeBool:
		return "L1"
	case TypeUint8:
		return "I3"
	case TypeInt16:
		return "I6"
	case TypeInt32:
		return "I11"
	case TypeInt64:
		return "I20"
	default:
		return "F14.7"
	}
}

// Sprint renders one cell value per the field's TDISP, falling back to a
// per-type default descriptor.
func (f BinaryField) Sprint(v any) string {
	disp := f.Disp
	if disp == "" {
		disp = defaultDisp(f.Type, f.Leng)
	}
	return FormatDisplay(disp, v)
}

// FormatDisplay applies a FITS display descriptor (Aw, Iw, Bw, Ow, Zw, Fw.d,
// Ew.d, ENw.d, ESw.d, Gw.d, Dw.d, Lw) to a value. Unrecognized descriptors
// fall back to %v.
func FormatDisplay(disp string, v any) string {
	d := strings.TrimSpace(disp)
	if len(d) > 1 && (d[1] == 'N' || d[1] == 'S') {
		// The EN/ES engineering forms may be rendered as plain E.
		d = string(d[0]) + d[2:]
	}

	var (
		code rune
		w    = 14
		m    = -1
	)
	fmt.Sscanf(d, "%c%d.%d", &code, &w, &m)

	verb := "%v"
	switch code {
	case 'A':
		verb = fmt.Sprintf("%%%d.%ds", w, w)
	case 'I':
		verb = fmt.Sprintf("%%%dd", w)
	case 'B':
		verb = fmt.Sprintf("%%%db", w)
	case 'O':
		verb = fmt.Sprintf("%%%do", w)
	case 'Z':
		verb = fmt.Sprintf("%%%dX", w)
	case 'L':
		verb = fmt.Sprintf("%%%dt", w)
	case 'F', 'D':
		if m >= 0 {
			verb = fmt.Sprintf("%%%d.%df", w, m)
		} else {
			verb = fmt.Sprintf("%%%df", w)
		}
	case 'E':
		if m >= 0 {
			verb = fmt.Sprintf("%%%d.%dE", w, m)
		} else {
			verb = fmt.Sprintf("%%%dE", w)
		}
	case 'G':
		if m >= 0 {
			verb = fmt.Sprintf("%%%d.%dG", w, m)
		} else {
			verb = fmt.Sprintf("%%%dG", w)
		}
	}
	return fmt.Sprintf(verb, v)
}
