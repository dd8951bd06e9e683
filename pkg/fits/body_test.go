package fits

import (
	"math"
	"testing"
)

func TestArrayAccessors(t *testing.T) {
	t.Parallel()

	arr, err := ArrayOf([]int32{1, 2, 3, 4, 5, 6}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Innermost axis first: (x, y).
	if got := arr.At(0, 0); got != int32(1) {
		t.Fatalf("At(0,0) = %v", got)
	}
	if got := arr.At(2, 1); got != int32(6) {
		t.Fatalf("At(2,1) = %v", got)
	}
	if got := arr.FloatAt(1, 1); got != 5 {
		t.Fatalf("FloatAt(1,1) = %v", got)
	}
	if got := arr.IntAt(2, 0); got != 3 {
		t.Fatalf("IntAt(2,0) = %v", got)
	}
}

func TestArrayOfShapeMismatch(t *testing.T) {
	t.Parallel()

	if _, err := ArrayOf([]float32{1, 2, 3}, 2, 2); err == nil {
		t.Fatal("expected shape error")
	}
	if _, err := ArrayOf("not a slice"); err == nil {
		t.Fatal("expected type error")
	}
}

func TestArrayStats(t *testing.T) {
	t.Parallel()

	arr, err := ArrayOf([]float64{3, math.NaN(), -1, 7}, 4)
	if err != nil {
		t.Fatal(err)
	}
	min, max := arr.Stats()
	if min != -1 || max != 7 {
		t.Fatalf("stats = (%v, %v)", min, max)
	}

	empty := NewArray(TypeFloat32, 0)
	min, max = empty.Stats()
	if min != 0 || max != 0 {
		t.Fatalf("empty stats = (%v, %v)", min, max)
	}
}

func TestColumnsOrder(t *testing.T) {
	t.Parallel()

	c := NewColumns().
		Add("Z", []int32{1}).
		Add("A", []int32{2}).
		Add("Z", []int32{3})
	names := c.Names()
	if len(names) != 2 || names[0] != "Z" || names[1] != "A" {
		t.Fatalf("names = %v", names)
	}
	if c.Col("Z").([]int32)[0] != 3 {
		t.Fatal("re-adding a column should replace its data")
	}
	if c.Rows() != 1 {
		t.Fatalf("rows = %d", c.Rows())
	}
}

func TestNewArrayZeroFilled(t *testing.T) {
	t.Parallel()

	arr := NewArray(TypeInt64, 2, 2)
	data := arr.Data.([]int64)
	if len(data) != 4 {
		t.Fatalf("len = %d", len(data))
	}
	for _, v := range data {
		if v != 0 {
			t.Fatal("not zero filled")
		}
	}
}

func TestTypeSizes(t *testing.T) {
	t.Parallel()

	want := map[Type]int{
		TypeUint8: 1, TypeInt16: 2, TypeInt32: 4, TypeInt64: 8,
		TypeFloat32: 4, TypeFloat64: 8, TypeComplex64: 8, TypeComplex128: 16,
		TypeBool: 1, TypeString: 1, TypeBits: 1, TypeUint32: 4, TypeUint64: 8,
	}
	for typ, size := range want {
		if typ.Size() != size {
			t.Errorf("%s size = %d, want %d", typ, typ.Size(), size)
		}
	}
}
