package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liliang-cn/pdfchat/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestStore(t *testing.T, ex *fakeExtractor) *Store {
	t.Helper()
	s, err := New(t.TempDir(), ex, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "my_report", NormalizeName("My Report"))
	require.Equal(t, "my_report", NormalizeName("my report.pdf"))
	require.Equal(t, "my_report", NormalizeName("My Report.PDF"))
	require.Equal(t, "quarterly_sales_2024", NormalizeName("Quarterly Sales 2024"))
	require.Equal(t, "", NormalizeName("  "))
}

func TestUploadNormalizesAndOverwrites(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	doc, err := s.Upload("My Report", strings.NewReader("first"))
	require.NoError(t, err)
	require.Equal(t, "my_report", doc.Name)

	// Same display name again: one entry, last writer wins.
	_, err = s.Upload("My Report", strings.NewReader("second"))
	require.NoError(t, err)

	docs, err := s.List(nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Contains(t, docs, "my_report")

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestUploadEmptyNameRejected(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	_, err := s.Upload("   ", strings.NewReader("x"))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestUploadRejectsNamesThatLeaveTheDirectory(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	s, err := New(docs, &fakeExtractor{}, zap.NewNop())
	require.NoError(t, err)

	for _, name := range []string{
		"../escape",
		"..",
		".",
		"/etc/passwd",
		`..\escape`,
		"nested/doc",
	} {
		_, err := s.Upload(name, strings.NewReader("x"))
		require.ErrorIs(t, err, domain.ErrInvalidRequest, "name %q", name)
	}

	// Nothing may land next to (or above) the document directory.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "docs", entries[0].Name())

	inside, err := os.ReadDir(docs)
	require.NoError(t, err)
	require.Empty(t, inside)
}

func TestDeleteAndProcessRejectInvalidNames(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{text: "x"})

	require.ErrorIs(t, s.Delete("../escape"), domain.ErrInvalidRequest)

	_, err := s.Process("../escape")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestListEmptyDirectory(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	docs, err := s.List(nil)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestListProcessedFollowsCache(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	_, err := s.Upload("a", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = s.Upload("b", strings.NewReader("y"))
	require.NoError(t, err)

	docs, err := s.List(map[string]string{"a": "text of a"})
	require.NoError(t, err)
	require.True(t, docs["a"].Processed)
	require.False(t, docs["b"].Processed)
}

func TestListIgnoresNonPDFEntries(t *testing.T) {
	ex := &fakeExtractor{}
	dir := t.TempDir()
	s, err := New(dir, ex, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755))
	_, err = s.Upload("real", strings.NewReader("x"))
	require.NoError(t, err)

	docs, err := s.List(nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Contains(t, docs, "real")
}

func TestProcess(t *testing.T) {
	ex := &fakeExtractor{text: "hello from page one"}
	s := newTestStore(t, ex)

	_, err := s.Upload("doc", strings.NewReader("%PDF"))
	require.NoError(t, err)

	text, err := s.Process("doc")
	require.NoError(t, err)
	require.Equal(t, "hello from page one", text)

	// Idempotent: same text again, extractor invoked fresh each time.
	again, err := s.Process("doc")
	require.NoError(t, err)
	require.Equal(t, text, again)
	require.Equal(t, 2, ex.calls)
}

func TestProcessNoSelectableText(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{text: ""})

	_, err := s.Upload("scanned", strings.NewReader("%PDF"))
	require.NoError(t, err)

	_, err = s.Process("scanned")
	var exErr *domain.ExtractionError
	require.ErrorAs(t, err, &exErr)
	require.ErrorIs(t, err, domain.ErrNoSelectableText)
}

func TestProcessExtractorFailure(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{err: errors.New("encrypted document")})

	_, err := s.Upload("locked", strings.NewReader("%PDF"))
	require.NoError(t, err)

	_, err = s.Process("locked")
	var exErr *domain.ExtractionError
	require.ErrorAs(t, err, &exErr)
	require.Contains(t, err.Error(), "encrypted document")
}

func TestProcessMissingDocument(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	_, err := s.Process("ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, &fakeExtractor{})

	doc, err := s.Upload("gone", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete("gone"))
	_, err = os.Stat(doc.Path)
	require.True(t, os.IsNotExist(err))

	docs, err := s.List(nil)
	require.NoError(t, err)
	require.NotContains(t, docs, "gone")

	// Deleting again is a no-op, not an error.
	require.NoError(t, s.Delete("gone"))
}
