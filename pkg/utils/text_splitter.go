package utils

import (
	"strings"
	"unicode"
)

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with 'overlap' characters carried across boundaries. When a
// whitespace character appears within the last tenth of a chunk the split
// moves back to it so words are not cut in half.
func SplitText(text string, chunkSize int, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	runes := []rune(text)
	totalLen := len(runes)

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end >= totalLen {
			end = totalLen
		} else if j := lastSpaceWithin(runes, i, end, chunkSize/10); j > i {
			end = j
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == totalLen {
			break
		}
	}

	return chunks
}

// lastSpaceWithin returns the index of the last whitespace rune in
// runes[end-window:end], or -1 when there is none.
func lastSpaceWithin(runes []rune, start, end, window int) int {
	low := end - window
	if low < start {
		low = start
	}
	for j := end - 1; j >= low; j-- {
		if unicode.IsSpace(runes[j]) {
			return j
		}
	}
	return -1
}
