package fits

import (
	"errors"
	"testing"
)

func TestDispatchFromKeys(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		keys map[string]any
		want Variant
	}{
		{"image", map[string]any{"XTENSION": "IMAGE   "}, VariantImage},
		{"table", map[string]any{"XTENSION": "TABLE   "}, VariantTable},
		{"bintable", map[string]any{"XTENSION": "BINTABLE"}, VariantBintable},
		{"a3dtable", map[string]any{"XTENSION": "A3DTABLE"}, VariantA3DTable},
		{"unknown xtension", map[string]any{"XTENSION": "WAFFLES "}, VariantConform},
		{"zimage", map[string]any{"XTENSION": "BINTABLE", "ZIMAGE": true}, VariantZImage},
		{"ztable", map[string]any{"XTENSION": "BINTABLE", "ZTABLE": true}, VariantZTable},
		{"primary", map[string]any{"SIMPLE": true}, VariantPrimary},
		{"random", map[string]any{"SIMPLE": true, "GROUPS": true, "NAXIS1": int64(0)}, VariantRandom},
		{"groups with data axis", map[string]any{"SIMPLE": true, "GROUPS": true, "NAXIS1": int64(8)}, VariantPrimary},
	}
	for _, tc := range cases {
		got, err := Dispatch(nil, tc.keys)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDispatchKeysWinOverData(t *testing.T) {
	t.Parallel()

	arr := NewArray(TypeFloat32, 4)
	got, err := Dispatch(arr, map[string]any{"XTENSION": "IMAGE   "})
	if err != nil {
		t.Fatal(err)
	}
	if got != VariantImage {
		t.Fatalf("got %s, want IMAGE", got)
	}
}

func TestDispatchFromData(t *testing.T) {
	t.Parallel()

	cols := NewColumns().
		Add("A", []int32{1, 2}).
		Add("B", []string{"x", "y"})
	textCols := NewColumns().
		Add("NAME", []string{"a", "b"})
	groups := Groups{{Params: []float64{1, 2}, Array: NewArray(TypeFloat32, 2, 2)}}

	cases := []struct {
		name string
		data any
		want Variant
	}{
		{"array", NewArray(TypeFloat64, 3), VariantPrimary},
		{"numeric slice", []float32{1, 2, 3}, VariantPrimary},
		{"string slice", []string{"a"}, VariantTable},
		{"string columns", textCols, VariantTable},
		{"mixed columns", cols, VariantBintable},
		{"records", Records{{"A": int32(1)}}, VariantBintable},
		{"groups", groups, VariantRandom},
		{"opaque", struct{}{}, VariantConform},
	}
	for _, tc := range cases {
		got, err := Dispatch(tc.data, nil)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDispatchUnknown(t *testing.T) {
	t.Parallel()

	_, err := Dispatch(nil, nil)
	if !errors.Is(err, ErrUnknownHDU) {
		t.Fatalf("err = %v, want ErrUnknownHDU", err)
	}
	_, err = Dispatch(nil, map[string]any{})
	if !errors.Is(err, ErrUnknownHDU) {
		t.Fatalf("empty map: err = %v", err)
	}
}
