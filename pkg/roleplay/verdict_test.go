package roleplay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
)

func TestFinalizeOutput_CompletionDisabled(t *testing.T) {
	raw := "Thank you for your help. Goodbye! " + constant.DiagnosisSentinel
	result := FinalizeOutput(raw, false)

	assert.False(t, result.Verdict)
	assert.Equal(t, raw, result.Output)
}

func TestFinalizeOutput_NoSentinel(t *testing.T) {
	result := FinalizeOutput("My head still hurts. What do you think it could be?", true)

	assert.False(t, result.Verdict)
	assert.Equal(t, "My head still hurts. What do you think it could be?", result.Output)
}

func TestFinalizeOutput_QuestionBeforeSentinel(t *testing.T) {
	raw := "That matches my symptoms. Is it sepsis? " + constant.DiagnosisSentinel
	result := FinalizeOutput(raw, true)

	assert.False(t, result.Verdict)
	assert.Equal(t, "That matches my symptoms. Is it sepsis?", result.Output)
	assert.NotContains(t, result.Output, constant.DiagnosisSentinel)
}

func TestFinalizeOutput_ConfirmedDiagnosis(t *testing.T) {
	raw := "You are right. It is sepsis. " + constant.DiagnosisSentinel
	result := FinalizeOutput(raw, true)

	assert.True(t, result.Verdict)
	assert.True(t, strings.HasPrefix(result.Output, "You are right. It is sepsis."))
	assert.Contains(t, result.Output, "Congratulations! You have provided the proper diagnosis")
	assert.NotContains(t, result.Output, constant.DiagnosisSentinel)
}

func TestFinalizeOutput_SentinelOnly(t *testing.T) {
	result := FinalizeOutput(constant.DiagnosisSentinel, true)

	assert.True(t, result.Verdict)
	assert.Contains(t, result.Output, "Congratulations!")
	assert.NotContains(t, result.Output, constant.DiagnosisSentinel)
}

func TestFinalizeOutput_TextAfterSentinelDropped(t *testing.T) {
	raw := "It is strep throat. " + constant.DiagnosisSentinel + " Goodbye now."
	result := FinalizeOutput(raw, true)

	assert.True(t, result.Verdict)
	assert.NotContains(t, result.Output, "Goodbye now.")
}
