package extract

import (
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// Extractor converts a stored document into plain text
type Extractor interface {
	Extract(path string) (string, error)
}

// PDFExtractor extracts text from PDF files. It is stateless: repeated calls
// on an unchanged file return identical results.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads every page in order and concatenates each page's text with no
// separator. Pages with no text contribute an empty string.
func (e *PDFExtractor) Extract(path string) (text string, err error) {
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
