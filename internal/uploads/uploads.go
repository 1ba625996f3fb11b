package uploads

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gotodo/todo-api/internal/constants"
	"github.com/gotodo/todo-api/internal/utils"
)

// MaxFileSize is the upload size limit in bytes.
const MaxFileSize = 5 * 1024 * 1024

const profilesSubdir = "profiles"

// ErrFileTooLarge is returned for uploads above MaxFileSize.
var ErrFileTooLarge = errors.New("file too large: maximum size is 5MB")

// UnsupportedTypeError is returned when neither the MIME type nor the file
// extension is on the image allow-list. It reports both so the client can
// see what was rejected.
type UnsupportedTypeError struct {
	MIME string
	Ext  string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("invalid file type: received MIME type %q, extension %q; only image files are allowed", e.MIME, e.Ext)
}

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// Store writes and removes uploaded images under a base directory.
type Store struct {
	baseDir string
}

// NewStore creates the upload directories and returns a Store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, profilesSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the directory the store writes into.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// SaveProfileImage validates and stores a single uploaded image, returning
// its path relative to the base directory. A file is accepted when either
// its MIME type or its extension is on the allow-list. owner is the user ID,
// or "temp" during registration when no ID exists yet.
func (s *Store) SaveProfileImage(fh *multipart.FileHeader, owner string) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType := fh.Header.Get("Content-Type")
	if !allowedMIMEs[mimeType] && !allowedExtensions[ext] {
		return "", &UnsupportedTypeError{MIME: mimeType, Ext: ext}
	}

	suffix, err := utils.RandomSuffix(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	name := fmt.Sprintf("%s-%d-%s%s", owner, time.Now().UnixMilli(), suffix, ext)
	relPath := filepath.Join(profilesSubdir, name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filepath.Join(s.baseDir, relPath))
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}

	return relPath, nil
}

// Remove deletes a stored image. The default sentinel is never touched and
// failures are logged, not returned: removal is best-effort cleanup.
func (s *Store) Remove(relPath string) {
	if relPath == "" || relPath == constants.DefaultProfileImage {
		return
	}
	if err := os.Remove(filepath.Join(s.baseDir, relPath)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error deleting image file %s: %v", relPath, err)
	}
}
