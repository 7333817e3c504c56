package roleplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIntoSentences(t *testing.T) {
	sentences := SplitIntoSentences("I have a headache. It started yesterday. Could it be stress?")
	assert.Equal(t, []string{
		"I have a headache.",
		"It started yesterday.",
		"Could it be stress?",
	}, sentences)
}

func TestSplitIntoSentences_KeepsAbbreviations(t *testing.T) {
	sentences := SplitIntoSentences("Dr. Smith prescribed it. I trust him.")
	assert.Equal(t, []string{
		"Dr. Smith prescribed it.",
		"I trust him.",
	}, sentences)
}

func TestSplitIntoSentences_KeepsInitialisms(t *testing.T) {
	sentences := SplitIntoSentences("I moved from the U.S. last year. The climate is different.")
	assert.Equal(t, []string{
		"I moved from the U.S. last year.",
		"The climate is different.",
	}, sentences)
}

func TestSplitIntoSentences_ExclamationAndTrailing(t *testing.T) {
	sentences := SplitIntoSentences("It hurts! Mostly at night")
	assert.Equal(t, []string{"It hurts!", "Mostly at night"}, sentences)
}

func TestSplitIntoSentences_Empty(t *testing.T) {
	assert.Nil(t, SplitIntoSentences(""))
}
