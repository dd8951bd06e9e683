package fits

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Open reads every HDU from the named file. Plain files are mapped read-only
// where mmap is available, with a buffered read fallback; .gz and .gzip
// files are decompressed transparently. All values are decoded into Go
// slices before the mapping is released.
func Open(path string, opts ...Option) ([]*HDU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer func() { _ = zr.Close() }()
		return ReadAll(zr, opts...)
	}

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size > 0 && size <= int64(int(^uint(0)>>1)) {
		if data, merr := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED); merr == nil {
			defer func() { _ = unix.Munmap(data) }()
			return ReadAll(bytes.NewReader(data), opts...)
		}
	}
	return ReadAll(f, opts...)
}

// WriteFile serializes the HDUs to the named file, truncating any previous
// contents.
func WriteFile(path string, hdus []*HDU, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAll(f, hdus, opts...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
