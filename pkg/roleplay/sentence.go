package roleplay

import "unicode"

// SplitIntoSentences splits a paragraph at sentence-ending punctuation
// followed by whitespace. Abbreviations like "Dr." and initialisms like
// "U.S." do not end a sentence.
func SplitIntoSentences(paragraph string) []string {
	runes := []rune(paragraph)
	if len(runes) == 0 {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if isAbbreviation(runes, i) {
			continue
		}

		sentences = append(sentences, string(runes[start:i+1]))

		// Skip the separating whitespace.
		i++
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// isAbbreviation reports whether the period at index i belongs to a
// title ("Dr.") or an initialism ("U.S.") rather than a sentence end.
func isAbbreviation(runes []rune, i int) bool {
	if runes[i] != '.' {
		return false
	}
	// "U.S." — word char, dot, word char immediately before this dot.
	if i >= 3 && isWordChar(runes[i-3]) && runes[i-2] == '.' && isWordChar(runes[i-1]) {
		return true
	}
	// "Dr." — an uppercase letter and a lowercase letter before the dot.
	if i >= 2 && unicode.IsUpper(runes[i-2]) && unicode.IsLower(runes[i-1]) {
		return true
	}
	return false
}

func isWordChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
