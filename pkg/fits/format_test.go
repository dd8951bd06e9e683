package fits

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/fits/pkg/card"
)

func TestDataFormatFromKeysImage(t *testing.T) {
	t.Parallel()

	d := NewDeck(
		card.New("BITPIX", int64(-32), ""),
		card.New("NAXIS", int64(2), ""),
		card.New("NAXIS1", int64(512), ""),
		card.New("NAXIS2", int64(256), ""),
	)
	df := dataFormatFromKeys(VariantImage, d)
	require.Equal(t, TypeFloat32, df.Type)
	require.Equal(t, []int{512, 256}, df.Shape)
	require.Equal(t, 512*256, df.Leng)
	require.Equal(t, 1, df.Group)
	require.Zero(t, df.Param)
}

func TestDataFormatFromKeysFallbacks(t *testing.T) {
	t.Parallel()

	// No BITPIX: images default to 32, binary tables to 8.
	empty := NewDeck()
	require.Equal(t, TypeInt32, dataFormatFromKeys(VariantPrimary, empty).Type)
	require.Equal(t, TypeUint8, dataFormatFromKeys(VariantBintable, empty).Type)

	// Dimensionless headers describe no data.
	require.Zero(t, dataFormatFromKeys(VariantPrimary, empty).Leng)
}

func TestDataFormatFromKeysBintable(t *testing.T) {
	t.Parallel()

	d := NewDeck(
		card.New("BITPIX", int64(8), ""),
		card.New("NAXIS", int64(2), ""),
		card.New("NAXIS1", int64(12), ""),
		card.New("NAXIS2", int64(10), ""),
		card.New("PCOUNT", int64(64), ""),
		card.New("GCOUNT", int64(1), ""),
	)
	df := dataFormatFromKeys(VariantBintable, d)
	require.Equal(t, TypeUint8, df.Type)
	require.Equal(t, 1*(64+120), df.Leng)
	require.Equal(t, 120, df.Heap, "heap defaults to the main table size")

	d.Put("THEAP", int64(160), "")
	require.Equal(t, 160, dataFormatFromKeys(VariantBintable, d).Heap)
}

func TestDataFormatFromKeysRandom(t *testing.T) {
	t.Parallel()

	d := NewDeck(
		card.New("BITPIX", int64(-32), ""),
		card.New("NAXIS", int64(3), ""),
		card.New("NAXIS1", int64(0), ""),
		card.New("NAXIS2", int64(4), ""),
		card.New("NAXIS3", int64(4), ""),
		card.New("PCOUNT", int64(3), ""),
		card.New("GCOUNT", int64(20), ""),
	)
	df := dataFormatFromKeys(VariantRandom, d)
	require.Equal(t, []int{4, 4}, df.Shape, "the zero axis is dropped")
	require.Equal(t, 20*(3+16), df.Leng)
}

func TestDataFormatFromDataBintableHeap(t *testing.T) {
	t.Parallel()

	cols := NewColumns().
		Add("S", []int32{1, 2}).
		Add("V", [][]float64{{1, 2, 3}, {}})
	df, err := dataFormatFromData(VariantBintable, cols)
	require.NoError(t, err)
	require.Equal(t, []int{12, 2}, df.Shape, "int32 plus a 2x4-byte pointer per record")
	require.Equal(t, 24, df.Param, "three float64 payloads")
	require.Equal(t, 24, df.Heap)
	require.Equal(t, 48, df.Leng)
}

func TestBodyElementInvariant(t *testing.T) {
	t.Parallel()

	// group * (param + prod(shape)) == element count on disk, across variants.
	arr, err := ArrayOf([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	df, err := dataFormatFromData(VariantPrimary, arr)
	require.NoError(t, err)
	require.Equal(t, df.Group*(df.Param+prod(df.Shape)), df.Leng)

	groups := Groups{
		{Params: []float64{1}, Array: NewArray(TypeInt16, 2, 3)},
		{Params: []float64{2}, Array: NewArray(TypeInt16, 2, 3)},
	}
	df, err = dataFormatFromData(VariantRandom, groups)
	require.NoError(t, err)
	require.Equal(t, df.Group*(df.Param+prod(df.Shape)), df.Leng)
}
