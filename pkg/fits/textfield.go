package fits

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TextField is the per-column layout of an ASCII table: a Fortran-style edit
// descriptor plus the 1-based start column from TBCOL.
type TextField struct {
	Name  string
	Code  byte
	Width int
	Dec   int
	Start int
	Unit  string
}

// tformTextRe is the ASCII-table TFORM grammar: code letter, field width,
// optional decimal count.
var tformTextRe = regexp.MustCompile(`^([AIFED])(\d+)(?:\.(\d+))?$`)

// Form renders the TFORM value for the field.
func (f TextField) Form() string {
	if f.Dec > 0 {
		return fmt.Sprintf("%c%d.%d", f.Code, f.Width, f.Dec)
	}
	return fmt.Sprintf("%c%d", f.Code, f.Width)
}

// Type returns the parsed value type of the column.
func (f TextField) Type() Type {
	switch f.Code {
	case 'I':
		return TypeInt64
	case 'F', 'E', 'D':
		return TypeFloat64
	default:
		return TypeString
	}
}

// textFieldsFromKeys builds ASCII-table column descriptors from TFIELDS,
// TBCOLn and TFORMn.
func textFieldsFromKeys(d *Deck) ([]TextField, error) {
	n := int(d.intDefault("TFIELDS", 0))
	fields := make([]TextField, 0, n)
	for j := 1; j <= n; j++ {
		form := strings.TrimSpace(d.stringDefault(nth("TFORM", j), ""))
		m := tformTextRe.FindStringSubmatch(form)
		if m == nil {
			return nil, &FieldError{Column: j, Reason: fmt.Sprintf("TFORM %q is not a valid text descriptor", form)}
		}
		width, _ := strconv.Atoi(m[2])
		dec := 0
		if m[3] != "" {
			dec, _ = strconv.Atoi(m[3])
		}
		start := int(d.intDefault(nth("TBCOL", j), 0))
		if start == 0 {
			return nil, &FieldError{Column: j, Reason: "missing TBCOL"}
		}
		fields = append(fields, TextField{
			Name:  columnName(d, j, false),
			Code:  m[1][0],
			Width: width,
			Dec:   dec,
			Start: start,
			Unit:  strings.TrimRight(d.stringDefault(nth("TUNIT", j), ""), " "),
		})
	}
	return fields, nil
}

// textFieldsFromData infers ASCII-table descriptors from string columns,
// laying fields adjacently from column 1 with one separating space.
func textFieldsFromData(data Body) ([]TextField, int, error) {
	c, ok := data.(*Columns)
	if !ok {
		return nil, 0, fmt.Errorf("fits: ASCII table needs string columns, got %T", data)
	}
	start := 1
	fields := make([]TextField, 0, len(c.Names()))
	for j, name := range c.Names() {
		col, ok := c.Col(name).([]string)
		if !ok {
			return nil, 0, &FieldError{Column: j + 1, Reason: fmt.Sprintf("ASCII table column is %T, not []string", c.Col(name))}
		}
		w := maxLen(col)
		if w == 0 {
			w = 1
		}
		fields = append(fields, TextField{Name: name, Code: 'A', Width: w, Start: start})
		start += w + 1
	}
	return fields, c.Rows(), nil
}

// parseTextCell decodes one fixed-width cell per the field descriptor.
func parseTextCell(f TextField, cell string) any {
	switch f.Code {
	case 'I':
		n, _ := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		return n
	case 'F', 'E', 'D':
		s := strings.Replace(strings.TrimSpace(cell), "D", "E", 1)
		x, _ := strconv.ParseFloat(s, 64)
		return x
	default:
		return strings.TrimRight(cell, " ")
	}
}

// formatTextCell renders one value into the field's fixed width.
func formatTextCell(f TextField, v any) string {
	var s string
	switch f.Code {
	case 'I':
		s = fmt.Sprintf("%*d", f.Width, intValue(v))
	case 'F':
		s = fmt.Sprintf("%*.*f", f.Width, f.Dec, floatValue(v))
	case 'E', 'D':
		s = fmt.Sprintf("%*.*E", f.Width, f.Dec, floatValue(v))
	default:
		s = fmt.Sprintf("%-*s", f.Width, stringValue(v))
	}
	if len(s) > f.Width {
		s = s[:f.Width]
	}
	return s
}

func floatValue(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
