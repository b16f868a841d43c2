package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Benbok/friendly-loan/internal/domain"
)

// allowedExtensions are the receipt document types accepted for upload.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".doc":  {},
	".docx": {},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ReceiptStore persists receipt documents on the local filesystem.
// Stored names carry a timestamp prefix, so repeated uploads of the
// same file never collide.
type ReceiptStore struct {
	dir string
	now func() time.Time
}

// NewReceiptStore creates a receipt store rooted at dir, creating the
// directory if needed.
func NewReceiptStore(dir string) (*ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}

	return &ReceiptStore{dir: dir, now: time.Now}, nil
}

// Save stores the document and returns its path relative to the store
// root. Unsupported file types are rejected.
func (s *ReceiptStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", domain.ErrUnsupportedReceipt
	}

	stored := fmt.Sprintf("%s_%s", s.now().UTC().Format("20060102_150405.000000000"), name)
	fullPath := filepath.Join(s.dir, stored)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return stored, nil
}

// Delete removes a stored receipt. A missing file is not an error.
func (s *ReceiptStore) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// Open returns a reader over a stored receipt.
func (s *ReceiptStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(path)))
}

// sanitizeFilename strips path components and characters that are not
// safe in a filename.
func sanitizeFilename(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "receipt"
	}

	return name
}
