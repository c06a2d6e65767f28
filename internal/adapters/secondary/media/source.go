package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

// URLPrefix is where media sources are mounted on the editor bridge
const URLPrefix = "/media/"

// sniffLen is how much of a file content type detection looks at
const sniffLen = 512

// Source exposes one local video to the editor page under an unguessable URL,
// the way a blob URL exposes a dropped file. Release revokes the URL.
type Source struct {
	mu       sync.RWMutex
	path     string
	file     entities.UploadFile
	id       string
	modTime  time.Time
	released bool
}

// DetectVideoType sniffs the media type of the file at path
func DetectVideoType(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 - path is the video chosen by the user
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return http.DetectContentType(buf[:n]), nil
}

// Open validates that path is a single MP4 video and wraps it as a source
func Open(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", services.ErrNotMP4, path)
	}

	mimeType, err := DetectVideoType(path)
	if err != nil {
		return nil, err
	}

	file, err := services.AcceptUpload([]entities.UploadFile{{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
	}})
	if err != nil {
		return nil, err
	}

	return &Source{
		path:    path,
		file:    file,
		id:      uuid.NewString(),
		modTime: info.ModTime(),
	}, nil
}

// URL returns the path the video element should load
func (s *Source) URL() string {
	return URLPrefix + s.id + ".mp4"
}

// File describes the accepted video
func (s *Source) File() entities.UploadFile {
	return s.file
}

// Released reports whether Release was called
func (s *Source) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.released
}

// Release revokes the URL; later requests get 404
func (s *Source) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
}

// ServeHTTP streams the video with range support
func (s *Source) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.Released() || path.Base(r.URL.Path) != path.Base(s.URL()) {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(s.path)
	if err != nil {
		http.Error(w, "video unavailable", http.StatusGone)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", entities.VideoMIMEType)
	http.ServeContent(w, r, s.file.Name, s.modTime, f)
}
