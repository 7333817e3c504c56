package docload

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnsupportedFormat means the file extension has no registered
	// extractor. Callers should fail the file rather than ingest noise.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction wraps parser failures for otherwise supported formats.
	ErrExtraction = errors.New("document text extraction failed")
)

// Load extracts the plain text of a document. The fileType is the bare
// extension without a leading dot, matched case-insensitively.
func Load(r io.Reader, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "txt", "md":
		return loadPlain(r)
	case "pdf":
		return loadPDF(r)
	case "docx":
		return loadDocx(r)
	case "pptx":
		return loadPptx(r)
	case "xlsx":
		return loadXlsx(r)
	case "xps":
		return loadXPS(r)
	case "mobi":
		return loadMobi(r)
	case "cbz", "png", "jpg", "jpeg":
		// Image formats carry no extractable text. They resolve to an
		// empty document rather than an error so ingestion completes
		// with zero chunks.
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileType)
	}
}

// Supported reports whether Load has an extractor for the extension.
func Supported(fileType string) bool {
	switch strings.ToLower(fileType) {
	case "txt", "md", "pdf", "docx", "pptx", "xlsx", "xps", "mobi", "cbz", "png", "jpg", "jpeg":
		return true
	}
	return false
}

func loadPlain(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return string(b), nil
}
