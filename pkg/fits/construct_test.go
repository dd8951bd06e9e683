package fits

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/fits/pkg/card"
)

func TestConstructPreservesUserCards(t *testing.T) {
	t.Parallel()

	arr, err := ArrayOf([]float32{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	user := []card.Card{
		card.New("BITPIX", int64(-32), "my own phrasing"),
		card.New("TELESCOP", "JWST", ""),
		card.New("OBSERVER", "edwin", ""),
	}
	h, err := New(arr, user, quiet())
	require.NoError(t, err)

	// The user's BITPIX card moved into the prefix, comment intact.
	i := h.Cards.Find("BITPIX")
	require.Equal(t, 1, i, "BITPIX follows SIMPLE")
	require.Equal(t, "my own phrasing", h.Cards.At(i).Comment)

	// The rest of the deck follows the prefix in user order.
	require.Greater(t, h.Cards.Find("TELESCOP"), h.Cards.Find("NAXIS2"))
	require.Greater(t, h.Cards.Find("OBSERVER"), h.Cards.Find("TELESCOP"))
}

func TestConstructKeysWinOverData(t *testing.T) {
	t.Parallel()

	// Explicit mandatory keys choose the variant even when the data would
	// dispatch elsewhere.
	arr, err := ArrayOf([]float32{1, 2, 3, 4}, 4)
	require.NoError(t, err)
	h, err := New(arr, []card.Card{card.New("XTENSION", "IMAGE", "")}, quiet())
	require.NoError(t, err)
	require.Equal(t, VariantImage, h.Variant)
	require.True(t, h.Cards.Has("PCOUNT"))
	require.True(t, h.Cards.Has("GCOUNT"))
}

func TestConstructMandatoryOrder(t *testing.T) {
	t.Parallel()

	cols := NewColumns().
		Add("A", []int32{1}).
		Add("B", []string{"q"})
	h, err := New(cols, nil, quiet())
	require.NoError(t, err)

	want := []string{
		"XTENSION", "BITPIX", "NAXIS", "NAXIS1", "NAXIS2",
		"PCOUNT", "GCOUNT", "TFIELDS", "TFORM1", "TTYPE1", "TFORM2", "TTYPE2",
	}
	require.Equal(t, len(want), h.Cards.Len())
	for i, k := range want {
		require.Equal(t, k, h.Cards.At(i).Key, "position %d", i)
	}
}

func TestConstructAnonymousColumnsSkipTTYPE(t *testing.T) {
	t.Parallel()

	d := NewDeck(
		card.New("TFIELDS", int64(1), ""),
		card.New("TFORM1", "1E", ""),
	)
	fields, err := binaryFieldsFromKeys(d, false, nil)
	require.NoError(t, err)

	cols := zeroColumns(fields, 2)
	h, err := New(cols, nil, quiet())
	require.NoError(t, err)
	require.False(t, h.Cards.Has("TTYPE1"), "synthesized names emit no TTYPE")
}

func TestConstructImageFromKeysOnly(t *testing.T) {
	t.Parallel()

	user := []card.Card{
		card.New("SIMPLE", true, ""),
		card.New("BITPIX", int64(16), ""),
		card.New("NAXIS", int64(1), ""),
		card.New("NAXIS1", int64(5), ""),
	}
	h, err := New(nil, user, quiet())
	require.NoError(t, err)
	require.Equal(t, VariantPrimary, h.Variant)

	arr, ok := h.Data.(*Array)
	require.True(t, ok)
	require.Equal(t, TypeInt16, arr.Type)
	require.Equal(t, []int{5}, arr.Shape)
	require.Equal(t, []int16{0, 0, 0, 0, 0}, arr.Data)
}
