package card

import (
	"strings"
	"testing"
)

func TestParseScalarValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line    string
		key     string
		value   any
		comment string
	}{
		{"SIMPLE  =                    T / conforms to FITS standard", "SIMPLE", true, "conforms to FITS standard"},
		{"EXTEND  =                    F", "EXTEND", false, ""},
		{"BITPIX  =                  -32 / array data type", "BITPIX", int64(-32), "array data type"},
		{"NAXIS1  =                  512", "NAXIS1", int64(512), ""},
		{"BSCALE  =                 2.5", "BSCALE", 2.5, ""},
		{"CRVAL1  =            1.234E+05", "CRVAL1", 1.234e5, ""},
		{"CRVAL2  =            1.234D+05", "CRVAL2", 1.234e5, ""},
		{"OBJECT  = 'M31     '", "OBJECT", "M31", ""},
		{"TFORM1  = '1PE(5)  '           / variable column", "TFORM1", "1PE(5)", "variable column"},
		{"QUOTED  = 'it''s   '", "QUOTED", "it's", ""},
		{"CPLX    =           (1.5, 2.5)", "CPLX", complex(1.5, 2.5), ""},
		{"BLANKVAL=                      / undefined", "BLANKVAL", nil, "undefined"},
	}

	for _, tc := range cases {
		c, err := Parse(tc.line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.line, err)
		}
		if c.Key != tc.key {
			t.Errorf("%q: key = %q, want %q", tc.line, c.Key, tc.key)
		}
		if c.Value != tc.value {
			t.Errorf("%q: value = %v (%T), want %v (%T)", tc.line, c.Value, c.Value, tc.value, tc.value)
		}
		if c.Comment != tc.comment {
			t.Errorf("%q: comment = %q, want %q", tc.line, c.Comment, tc.comment)
		}
	}
}

func TestParseCommentary(t *testing.T) {
	t.Parallel()

	c, err := Parse("COMMENT   FITS (Flexible Image Transport System)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Key != "COMMENT" || c.Value != nil {
		t.Fatalf("got %+v", c)
	}
	if !strings.HasPrefix(c.Comment, "  FITS") {
		t.Fatalf("comment = %q", c.Comment)
	}

	end, err := Parse("END")
	if err != nil {
		t.Fatalf("parse END: %v", err)
	}
	if end.Key != "END" || end.Value != nil || end.Comment != "" {
		t.Fatalf("END card = %+v", end)
	}
}

func TestParseTooLong(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.Repeat("X", 81)); err == nil {
		t.Fatal("expected error for 81-byte line")
	}
}

func TestRenderFixedFormat(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()

	line := New("BITPIX", int64(-32), "array data type").Render(l)
	if len(line) != Width {
		t.Fatalf("line length %d", len(line))
	}
	if line[:10] != "BITPIX  = " {
		t.Fatalf("prefix = %q", line[:10])
	}
	// Fixed format: value field ends at byte 30.
	if line[27:30] != "-32" {
		t.Fatalf("value field = %q", line[10:30])
	}
	if line[31] != '/' {
		t.Fatalf("slash at %q", line[30:34])
	}

	str := New("XTENSION", "IMAGE", "extension type").Render(l)
	if str[10:20] != "'IMAGE   '" {
		t.Fatalf("string field = %q", str[10:20])
	}

	b := New("SIMPLE", true, "").Render(l)
	if b[29] != 'T' {
		t.Fatalf("bool not at byte 30: %q", b[:32])
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	cards := []Card{
		New("SIMPLE", true, "conforms to FITS standard"),
		New("BITPIX", int64(8), ""),
		New("BSCALE", 1.5, "linear scale"),
		New("OBJECT", "NGC 4594", ""),
		New("CPLX", complex(3.0, -4.5), ""),
		New("HIERARCH", nil, "no value here"),
	}
	for _, c := range cards {
		back, err := Parse(c.Render(l))
		if err != nil {
			t.Fatalf("%s: %v", c.Key, err)
		}
		if back.Key != c.Key || back.Value != c.Value {
			t.Fatalf("%s: round trip %v -> %v", c.Key, c.Value, back.Value)
		}
	}
}

func TestFloatKeepsPoint(t *testing.T) {
	t.Parallel()

	c, err := Parse(New("TZERO1", 32768.0, "").Render(DefaultLayout()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := c.Value.(float64); !ok {
		t.Fatalf("value %v (%T) lost floatness", c.Value, c.Value)
	}
}

func TestRenderContinued(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	l.Append = true

	long := strings.Repeat("abcdefgh", 20) // 160 chars, needs CONTINUE
	lines := New("LONGSTR", long, "").RenderAll(l)
	if len(lines) < 2 {
		t.Fatalf("expected CONTINUE cards, got %d line(s)", len(lines))
	}
	for i, line := range lines {
		if len(line) != Width {
			t.Fatalf("line %d has %d bytes", i, len(line))
		}
	}
	if !strings.HasPrefix(lines[1], "CONTINUE  ") {
		t.Fatalf("second line = %q", lines[1][:12])
	}

	// Reassemble the string the way a header reader would.
	var got string
	for _, line := range lines {
		c, err := Parse(line)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		s, _ := c.Value.(string)
		got = strings.TrimSuffix(got, "&") + s
	}
	if got != long {
		t.Fatalf("reassembled %d bytes, want %d", len(got), len(long))
	}
}

func TestRenderTruncates(t *testing.T) {
	t.Parallel()

	c := New("KEY", int64(1), strings.Repeat("x", 200))
	line := c.Render(DefaultLayout())
	if len(line) != Width {
		t.Fatalf("line length %d", len(line))
	}
}
