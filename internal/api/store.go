package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/samcharles93/fits/pkg/fits"
)

// OpenFile is one opened FITS file held by the server.
type OpenFile struct {
	ID   string
	Path string
	HDUs []*fits.HDU
}

// FileStore tracks opened files by handle id.
type FileStore struct {
	mu    sync.RWMutex
	files map[string]*OpenFile
	order []string
}

// NewFileStore returns an empty store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]*OpenFile)}
}

// Add registers the HDUs under a fresh handle id.
func (s *FileStore) Add(path string, hdus []*fits.HDU) *OpenFile {
	f := &OpenFile{
		ID:   "file_" + uuid.NewString(),
		Path: path,
		HDUs: hdus,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.ID] = f
	s.order = append(s.order, f.ID)
	return f
}

// Get looks up a handle.
func (s *FileStore) Get(id string) (*OpenFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[id]
	return f, ok
}

// Remove drops a handle and reports whether it existed.
func (s *FileStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return false
	}
	delete(s.files, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the open files in open order.
func (s *FileStore) List() []*OpenFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*OpenFile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.files[id])
	}
	return out
}
