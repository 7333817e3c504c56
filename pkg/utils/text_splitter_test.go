package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText_ShortInput(t *testing.T) {
	chunks := SplitText("patient reports mild headache", 1500, 200)
	assert.Equal(t, []string{"patient reports mild headache"}, chunks)
}

func TestSplitText_EmptyInput(t *testing.T) {
	assert.Nil(t, SplitText("   ", 1500, 200))
}

func TestSplitText_OverlapPreservesContext(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 chars, no spaces
	chunks := SplitText(text, 200, 50)

	assert.True(t, len(chunks) > 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-50:]
		assert.True(t, strings.HasPrefix(chunks[i], tail))
	}
}

func TestSplitText_BreaksAtWhitespace(t *testing.T) {
	words := strings.Repeat("lisinopril dosage ", 30)
	chunks := SplitText(words, 100, 20)

	for _, c := range chunks {
		assert.False(t, strings.HasPrefix(c, "isinopril"))
		assert.False(t, strings.HasSuffix(c, "lisinopri"))
	}
}

func TestSplitText_DegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 400)
	chunks := SplitText(text, 100, 100)

	assert.Equal(t, 4, len(chunks))
}
