package fits

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/fits/pkg/card"
)

func testFile(t *testing.T) []*HDU {
	t.Helper()
	arr, err := ArrayOf([]float32{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	primary, err := New(arr, nil, quiet())
	require.NoError(t, err)

	cols := NewColumns().Add("T", []float64{0.5, 1.5})
	table, err := New(cols, []card.Card{card.New("EXTNAME", "RATES", "")}, quiet())
	require.NoError(t, err)
	return []*HDU{primary, table}
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.fits")
	hdus := testFile(t)
	require.NoError(t, WriteFile(path, hdus, quiet()))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, st.Size()%2880)

	back, err := Open(path, quiet())
	require.NoError(t, err)
	require.Len(t, back, 2)
	require.Equal(t, hdus[0].Data, back[0].Data)
	require.Equal(t, "RATES", back[1].Name())
	require.Equal(t, []float64{0.5, 1.5}, back[1].Data.(*Columns).Col("T"))
}

func TestOpenGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "test.fits")
	hdus := testFile(t)
	require.NoError(t, WriteFile(plain, hdus, quiet()))

	raw, err := os.ReadFile(plain)
	require.NoError(t, err)

	zipped := filepath.Join(dir, "test.fits.gz")
	f, err := os.Create(zipped)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	back, err := Open(zipped, quiet())
	require.NoError(t, err)
	require.Len(t, back, 2)
	require.Equal(t, hdus[0].Data, back[0].Data)
}

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "nope.fits"))
	require.Error(t, err)
}
