// Package card implements the 80-byte FITS header card.
//
// A card pairs an uppercase keyword of at most eight characters with a typed
// value and an optional comment. The package only deals in single cards: it
// parses one 80-character line into a Card and renders a Card back into one
// or more 80-character lines. Ordering, keyword lookup and END handling live
// with the caller.
package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Width is the fixed byte length of a rendered card.
const Width = 80

// Keyword length on disk.
const KeyWidth = 8

// Card is a single header record. Value is one of nil, bool, int64, float64,
// string or complex128.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// New returns a card with the given key, value and comment. The key is
// uppercased and trimmed; the value must be one of the supported kinds.
func New(key string, value any, comment string) Card {
	return Card{Key: normalizeKey(key), Value: normalizeValue(value), Comment: comment}
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// normalizeValue widens small numeric kinds so a Card value is always one of
// the six supported types.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string, complex128:
		return v
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case complex64:
		return complex128(x)
	default:
		return fmt.Sprint(v)
	}
}

// Parse decodes one 80-character header line. Shorter input is padded with
// spaces; longer input is an error.
func Parse(line string) (Card, error) {
	if len(line) > Width {
		return Card{}, fmt.Errorf("card: line longer than %d bytes (%d)", Width, len(line))
	}
	if len(line) < Width {
		line += strings.Repeat(" ", Width-len(line))
	}

	key := strings.TrimRight(line[:KeyWidth], " ")

	// Commentary keywords and CONTINUE have no value indicator.
	switch key {
	case "COMMENT", "HISTORY", "":
		return Card{Key: key, Comment: strings.TrimRight(line[KeyWidth:], " ")}, nil
	case "CONTINUE":
		v, comment, err := parseValue(line[10:])
		if err != nil {
			return Card{}, fmt.Errorf("card: CONTINUE: %w", err)
		}
		return Card{Key: key, Value: v, Comment: comment}, nil
	case "END":
		return Card{Key: key}, nil
	}

	if line[KeyWidth:KeyWidth+2] != "= " {
		// Keyword without a value; everything after the key is commentary.
		return Card{Key: key, Comment: strings.TrimRight(line[KeyWidth:], " ")}, nil
	}

	v, comment, err := parseValue(line[10:])
	if err != nil {
		return Card{}, fmt.Errorf("card: %s: %w", key, err)
	}
	return Card{Key: key, Value: v, Comment: comment}, nil
}

// parseValue decodes the value field and trailing comment of a card body
// (everything after the "= " indicator).
func parseValue(body string) (any, string, error) {
	s := strings.TrimLeft(body, " ")
	if s == "" {
		return nil, "", nil
	}

	if s[0] == '\'' {
		val, rest, err := parseQuoted(s)
		if err != nil {
			return nil, "", err
		}
		return val, parseComment(rest), nil
	}

	// Split off the comment before classifying the raw value.
	raw := s
	comment := ""
	if j := strings.IndexByte(s, '/'); j >= 0 {
		raw = s[:j]
		comment = strings.TrimRight(strings.TrimPrefix(s[j+1:], " "), " ")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, comment, nil
	}

	switch {
	case raw == "T":
		return true, comment, nil
	case raw == "F":
		return false, comment, nil
	case raw[0] == '(':
		var re, im float64
		if _, err := fmt.Sscanf(raw, "(%f,%f)", &re, &im); err != nil {
			return nil, "", fmt.Errorf("bad complex value %q", raw)
		}
		return complex(re, im), comment, nil
	}

	// Fortran D exponents are accepted alongside E.
	num := strings.Replace(raw, "D", "E", 1)
	if strings.ContainsAny(num, ".E") {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil, "", fmt.Errorf("bad value %q", raw)
		}
		return f, comment, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, "", fmt.Errorf("bad value %q", raw)
	}
	return n, comment, nil
}

// parseQuoted consumes a quoted string constant, handling doubled quotes,
// and returns the decoded value plus the unconsumed tail.
func parseQuoted(s string) (string, string, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c != '\'' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i += 2
			continue
		}
		return strings.TrimRight(b.String(), " "), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated string %q", s)
}

func parseComment(rest string) string {
	j := strings.IndexByte(rest, '/')
	if j < 0 {
		return ""
	}
	return strings.TrimRight(strings.TrimPrefix(rest[j+1:], " "), " ")
}

// Continued reports whether the card carries a string value ending in the
// continuation marker '&'.
func (c Card) Continued() bool {
	s, ok := c.Value.(string)
	return ok && strings.HasSuffix(s, "&")
}
