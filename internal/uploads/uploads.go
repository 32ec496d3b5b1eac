package uploads

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ecom-backend/user-service/internal/logger"
)

// MaxFileSize is the upload cap in bytes.
const MaxFileSize = 5 << 20 // 5MB

var (
	ErrMissingFile     = errors.New("no file provided")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("must be png/jpg/jpeg/pdf file")
)

// supportedExtensions are the only accepted upload extensions.
var supportedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".pdf":  {},
}

var whitespace = regexp.MustCompile(`\s+`)

// Saver validates multipart uploads and writes them to a local directory
// served under publicPath.
type Saver struct {
	dir        string
	publicPath string
}

// NewSaver creates a Saver storing files under dir. The directory is
// created if missing.
func NewSaver(dir, publicPath string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Saver{dir: dir, publicPath: publicPath}, nil
}

// SaveFromRequest reads the named multipart field, validates extension and
// size, and stores the file under a unique name. It returns the stored
// filename. Validation failures surface before any file is written.
func (s *Saver) SaveFromRequest(r *http.Request, field string) (string, error) {
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		return "", ErrMissingFile
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", ErrMissingFile
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := supportedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}

	if header.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	storedName := storedFilename(header.Filename)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		logger.Log.Errorw("failed to create upload file", "name", storedName, "err", err)
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxFileSize)); err != nil {
		logger.Log.Errorw("failed to write upload file", "name", storedName, "err", err)
		return "", err
	}

	logger.Log.Infow("upload stored", "name", storedName, "size", header.Size)
	return storedName, nil
}

// URL derives the public URL of a stored filename.
func (s *Saver) URL(storedName string) string {
	return s.publicPath + "/" + storedName
}

// storedFilename builds a unique name: time-random prefix plus the original
// name with whitespace collapsed to underscores.
func storedFilename(original string) string {
	clean := whitespace.ReplaceAllString(filepath.Base(original), "_")
	return fmt.Sprintf("%d-%d_%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), clean)
}
