// Package api serves a quicklook HTTP view over FITS files: open a file,
// list its HDUs, and fetch headers, field layouts and image statistics as
// JSON.
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/fits/internal/logger"
	"github.com/samcharles93/fits/pkg/fits"
)

// Server exposes the quicklook API over a FileStore.
type Server struct {
	store *FileStore
	log   logger.Logger
}

// NewServer creates a Server backed by store.
func NewServer(store *FileStore, log logger.Logger) *Server {
	if store == nil {
		store = NewFileStore()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{store: store, log: log}
}

// Register mounts the API routes.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/files", s.handleOpenFile)
	e.GET("/v1/files", s.handleListFiles)
	e.DELETE("/v1/files/:id", s.handleCloseFile)
	e.GET("/v1/files/:id/hdus", s.handleListHDUs)
	e.GET("/v1/files/:id/hdus/:n/header", s.handleHeader)
	e.GET("/v1/files/:id/hdus/:n/fields", s.handleFields)
	e.GET("/v1/files/:id/hdus/:n/stats", s.handleStats)
}

func (s *Server) handleOpenFile(c *echo.Context) error {
	req, err := decodeJSON[OpenFileRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Path == "" {
		return writeBadRequest(c, "path is required")
	}

	hdus, err := fits.Open(req.Path)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	f := s.store.Add(req.Path, hdus)
	s.log.Info("opened file", "path", req.Path, "id", f.ID, "hdus", len(hdus))
	return writeJSON(c, http.StatusCreated, fileInfo(f))
}

func (s *Server) handleListFiles(c *echo.Context) error {
	files := s.store.List()
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, fileInfo(f))
	}
	return writeJSON(c, http.StatusOK, FileListResponse{Files: out})
}

func (s *Server) handleCloseFile(c *echo.Context) error {
	if !s.store.Remove(c.Param("id")) {
		return writeNotFound(c, "no such file handle")
	}
	return writeJSON(c, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleListHDUs(c *echo.Context) error {
	f, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such file handle")
	}
	out := make([]HDUInfo, 0, len(f.HDUs))
	for i, h := range f.HDUs {
		out = append(out, hduInfo(i, h))
	}
	return writeJSON(c, http.StatusOK, HDUListResponse{HDUs: out})
}

func (s *Server) handleHeader(c *echo.Context) error {
	h, err := s.hdu(c)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	cards := make([]CardInfo, 0, h.Cards.Len())
	for _, cd := range h.Cards.Cards() {
		cards = append(cards, CardInfo{Key: cd.Key, Value: cd.Value, Comment: cd.Comment})
	}
	return writeJSON(c, http.StatusOK, HeaderResponse{Cards: cards})
}

func (s *Server) handleFields(c *echo.Context) error {
	h, err := s.hdu(c)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	fields, ferr := h.Fields()
	if ferr != nil {
		return writeBadRequest(c, ferr.Error())
	}
	out := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldInfo{
			Name:     f.Name,
			Form:     f.Form(),
			Type:     f.Type.String(),
			Repeat:   f.Leng,
			Variable: f.Pntr != fits.TypeNone,
			Unit:     f.Unit,
		})
	}
	return writeJSON(c, http.StatusOK, FieldListResponse{Fields: out})
}

func (s *Server) handleStats(c *echo.Context) error {
	h, err := s.hdu(c)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	a, ok := h.Data.(*fits.Array)
	if !ok {
		return writeBadRequest(c, "HDU has no image data")
	}
	min, max := a.Stats()
	return writeJSON(c, http.StatusOK, StatsResponse{
		Type:  a.Type.String(),
		Shape: a.Shape,
		Min:   min,
		Max:   max,
	})
}

func (s *Server) hdu(c *echo.Context) (*fits.HDU, error) {
	f, ok := s.store.Get(c.Param("id"))
	if !ok {
		return nil, errNoHandle
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 || n >= len(f.HDUs) {
		return nil, errNoHDU
	}
	return f.HDUs[n], nil
}

func fileInfo(f *OpenFile) FileInfo {
	return FileInfo{ID: f.ID, Path: f.Path, HDUCount: len(f.HDUs)}
}

func hduInfo(i int, h *fits.HDU) HDUInfo {
	df := h.Format()
	return HDUInfo{
		Index:   i,
		Variant: h.Variant.String(),
		Name:    h.Name(),
		Type:    df.Type.String(),
		Shape:   df.Shape,
		Cards:   h.Cards.Len(),
	}
}
