package docload

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

var mobiTagPattern = regexp.MustCompile(`<[^>]{1,200}>`)

// loadMobi does a best-effort extraction of the HTML-like text records
// inside a MOBI container. The record layout is not parsed; instead the
// printable runs are recovered, markup is stripped, and short fragments
// are dropped. The output is lossy but good enough for embedding.
func loadMobi(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var (
		runs []string
		run  strings.Builder
	)
	flush := func() {
		if run.Len() >= 20 {
			runs = append(runs, run.String())
		}
		run.Reset()
	}
	for _, c := range string(b) {
		if c == unicode.ReplacementChar {
			flush()
			continue
		}
		if unicode.IsPrint(c) || c == '\n' || c == '\t' {
			run.WriteRune(c)
		} else {
			flush()
		}
	}
	flush()

	text := strings.Join(runs, "\n")
	text = mobiTagPattern.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	return text, nil
}
