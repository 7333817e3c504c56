package roleplay

import (
	"strings"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
)

// TurnResult is the post-processed outcome of one model reply.
type TurnResult struct {
	Output  string
	Verdict bool
}

// FinalizeOutput applies the diagnosis sentinel rules to a raw model
// reply. Without completion mode the reply passes through unchanged.
// With it, a reply containing the sentinel is truncated to the
// sentences before it; if the sentence just before the sentinel ends in
// a question mark the model was still probing, so the verdict stays
// false and the sentinel is dropped silently. Otherwise the verdict is
// true and the fixed congratulatory sentence is appended.
func FinalizeOutput(response string, llmCompletion bool) TurnResult {
	if !llmCompletion {
		return TurnResult{Output: response, Verdict: false}
	}
	if !strings.Contains(response, constant.DiagnosisSentinel) {
		return TurnResult{Output: response, Verdict: false}
	}

	sentences := SplitIntoSentences(response)
	for i, sentence := range sentences {
		if !strings.Contains(sentence, constant.DiagnosisSentinel) {
			continue
		}

		kept := strings.Join(sentences[:i], " ")
		if i > 0 && strings.HasSuffix(strings.TrimSpace(sentences[i-1]), "?") {
			return TurnResult{Output: kept, Verdict: false}
		}
		return TurnResult{
			Output:  strings.TrimSpace(kept + constant.CompletionSentence),
			Verdict: true,
		}
	}

	// Sentinel present but the splitter found no boundary; strip inline.
	stripped := strings.TrimSpace(strings.ReplaceAll(response, constant.DiagnosisSentinel, ""))
	return TurnResult{
		Output:  strings.TrimSpace(stripped + constant.CompletionSentence),
		Verdict: true,
	}
}
