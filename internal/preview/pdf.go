// Package preview inspects uploaded binaries for metadata shown on the
// public share page.
package preview

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount parses the uploaded bytes as a PDF and returns the number
// of pages. The pdf package panics on some malformed inputs, so the
// panic is converted into an error here.
func PDFPageCount(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}
