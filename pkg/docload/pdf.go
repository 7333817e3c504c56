package docload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts plain text from every page. A PDF with no extractable
// text yields an empty string and no error.
func loadPDF(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(b) == 0 {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return string(out), nil
}
