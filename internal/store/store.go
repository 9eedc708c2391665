package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/liliang-cn/pdfchat/internal/domain"
	"github.com/liliang-cn/pdfchat/internal/extract"
	"go.uber.org/zap"
)

const pdfExt = ".pdf"

// Store maintains the set of uploaded documents in a flat directory of
// {name}.pdf files. It holds no extracted text: processed status belongs to
// the session owning the text cache.
type Store struct {
	dir       string
	extractor extract.Extractor
	logger    *zap.Logger
}

// New creates a document store rooted at dir, creating it if absent
func New(dir string, extractor extract.Extractor, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &Store{dir: dir, extractor: extractor, logger: logger}, nil
}

// NormalizeName maps a display name to its storage key: strip a trailing
// .pdf, lowercase, spaces to underscores. Two display names that normalize
// to the same key share one file; the later upload wins.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(filepath.Ext(name), pdfExt) {
		name = name[:len(name)-len(pdfExt)]
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// validName reports whether a normalized key stays inside the flat document
// directory. Separators and dot entries would resolve outside it.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Path returns the storage path for a document name
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+pdfExt)
}

// List scans the document directory for PDFs. Processed is true iff the name
// is present in the caller-supplied text cache. An empty directory yields an
// empty map, not an error.
func (s *Store) List(textCache map[string]string) (map[string]domain.DocumentInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	docs := make(map[string]domain.DocumentInfo)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pdfExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), pdfExt)
		_, processed := textCache[name]
		docs[name] = domain.DocumentInfo{
			Path:      filepath.Join(s.dir, entry.Name()),
			Processed: processed,
		}
	}
	return docs, nil
}

// Upload writes the document bytes under the normalized name, silently
// overwriting any existing file with the same key.
func (s *Store) Upload(name string, r io.Reader) (*domain.Document, error) {
	key := NormalizeName(name)
	if !validName(key) {
		return nil, fmt.Errorf("%w: invalid document name %q", domain.ErrInvalidRequest, name)
	}

	path := s.Path(key)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create document file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	s.logger.Info("document uploaded", zap.String("name", key))
	return &domain.Document{Name: key, Path: path}, nil
}

// Delete removes the stored file. A missing file is a no-op, not an error.
// The caller is responsible for evicting any cached text.
func (s *Store) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: invalid document name %q", domain.ErrInvalidRequest, name)
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Info("document deleted", zap.String("name", name))
	return nil
}

// Process runs the extractor on the stored file and returns the text for the
// caller to cache. An empty result or any extractor failure comes back as an
// ExtractionError; the document stays unprocessed and the action is retriable.
func (s *Store) Process(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: invalid document name %q", domain.ErrInvalidRequest, name)
	}
	path := s.Path(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to stat document: %w", err)
	}

	text, err := s.extractor.Extract(path)
	if err != nil {
		return "", &domain.ExtractionError{Cause: err}
	}
	if text == "" {
		return "", &domain.ExtractionError{Cause: domain.ErrNoSelectableText}
	}
	return text, nil
}
