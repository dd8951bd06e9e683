package fits

import (
	"errors"
	"testing"

	"github.com/samcharles93/fits/pkg/card"
)

func testDeck() *Deck {
	return NewDeck(
		card.New("SIMPLE", true, "conforms to FITS standard"),
		card.New("BITPIX", int64(16), "array data type"),
		card.New("NAXIS", int64(1), ""),
		card.New("NAXIS1", int64(100), ""),
		card.New("OBJECT", "M31", "target"),
		card.New("OBJECT", "M32", "shadowed duplicate"),
	)
}

func TestDeckGet(t *testing.T) {
	t.Parallel()

	d := testDeck()
	v, err := d.Get("bitpix")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != int64(16) {
		t.Fatalf("BITPIX = %v", v)
	}

	// First match wins.
	v, _ = d.Get("OBJECT")
	if v != "M31" {
		t.Fatalf("OBJECT = %v, want first card", v)
	}

	_, err = d.Get("MISSING")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("err = %v, want ErrKeyNotFound", err)
	}
	var ke *KeyError
	if !errors.As(err, &ke) || ke.Key != "MISSING" {
		t.Fatalf("err = %#v", err)
	}
}

func TestDeckGetDefault(t *testing.T) {
	t.Parallel()

	d := testDeck()
	if got := d.GetDefault("GCOUNT", int64(1)); got != int64(1) {
		t.Fatalf("default = %v", got)
	}
	if got := d.GetDefault("BITPIX", int64(8)); got != int64(16) {
		t.Fatalf("present = %v", got)
	}

	vals := d.GetAll([]string{"BITPIX", "PCOUNT"}, []any{nil, int64(0)})
	if vals[0] != int64(16) || vals[1] != int64(0) {
		t.Fatalf("GetAll = %v", vals)
	}
}

func TestDeckSetPreservesCard(t *testing.T) {
	t.Parallel()

	d := testDeck()
	if err := d.Set("NAXIS1", int64(7)); err != nil {
		t.Fatalf("set: %v", err)
	}
	i := d.Find("NAXIS1")
	if i != 3 {
		t.Fatalf("set moved card to %d", i)
	}
	if d.At(i).Value != int64(7) {
		t.Fatalf("value = %v", d.At(i).Value)
	}

	if err := d.Set("NOPE", 1); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeckPop(t *testing.T) {
	t.Parallel()

	d := testDeck()
	n := d.Len()
	if v := d.Pop("OBJECT", nil); v != "M31" {
		t.Fatalf("pop = %v", v)
	}
	if d.Len() != n-1 {
		t.Fatalf("len = %d", d.Len())
	}
	// The shadowed duplicate surfaces after the first pop.
	if v, _ := d.Get("OBJECT"); v != "M32" {
		t.Fatalf("second OBJECT = %v", v)
	}
	if v := d.Pop("GONE", "fallback"); v != "fallback" {
		t.Fatalf("pop default = %v", v)
	}
}

func TestDeckFind(t *testing.T) {
	t.Parallel()

	d := testDeck()
	if i := d.Find("naxis"); i != 2 {
		t.Fatalf("find = %d", i)
	}
	if i := d.Find("ABSENT"); i != -1 {
		t.Fatalf("find absent = %d", i)
	}
	if !d.Has("SIMPLE") || d.Has("XTENSION") {
		t.Fatal("has is wrong")
	}
}

func TestDeckNeverHoldsEND(t *testing.T) {
	t.Parallel()

	d := NewDeck(card.New("A", int64(1), ""), card.Card{Key: "END"}, card.New("B", int64(2), ""))
	if d.Has("END") {
		t.Fatal("END survived NewDeck")
	}
	d.Append(card.Card{Key: "END"})
	if d.Has("END") || d.Len() != 2 {
		t.Fatalf("END appended, len=%d", d.Len())
	}
}

func TestDeckOrderPreserved(t *testing.T) {
	t.Parallel()

	d := testDeck()
	d.Put("NEWKEY", int64(5), "")
	want := []string{"SIMPLE", "BITPIX", "NAXIS", "NAXIS1", "OBJECT", "OBJECT", "NEWKEY"}
	for i, k := range want {
		if d.At(i).Key != k {
			t.Fatalf("card %d = %s, want %s", i, d.At(i).Key, k)
		}
	}
}
