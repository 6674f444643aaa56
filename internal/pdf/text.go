// Package pdf reads reference lists out of PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts the plain text of the first maxPages pages of a PDF.
// maxPages <= 0 reads every page. Pages that fail to decode are skipped.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	return pagesText(r, maxPages), nil
}

// ExtractTextReader extracts text from a PDF held in r.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}
	return pagesText(pdfReader, maxPages), nil
}

func pagesText(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// ExtractReferences reads a PDF and returns the entries of its reference list.
func ExtractReferences(filePath string) ([]string, error) {
	text, err := ExtractText(filePath, 0)
	if err != nil {
		return nil, err
	}
	return SplitReferences(text), nil
}
