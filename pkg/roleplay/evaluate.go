package roleplay

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Evaluation is the coaching feedback for one student message.
type Evaluation struct {
	EmpathyScore string `json:"empathy_score"`
	RealismFlag  string `json:"realism_flag"`
	Feedback     string `json:"feedback"`
}

// NeutralEvaluation is returned when the scoring call fails or its
// output cannot be parsed. Evaluation is advisory and must never fail
// the turn.
func NeutralEvaluation(feedback string) *Evaluation {
	return &Evaluation{
		EmpathyScore: "ok",
		RealismFlag:  "realistic",
		Feedback:     feedback,
	}
}

// PatientContext summarizes the persona for the scoring model.
func PatientContext(name, age, prompt string) string {
	return fmt.Sprintf("Patient: %s, Age: %s, Condition: %s", name, age, prompt)
}

// BuildEvaluationPrompt asks the scoring model to grade a student
// message for empathy and realism, returning strict JSON.
func BuildEvaluationPrompt(studentResponse, patientContext string) string {
	return fmt.Sprintf(`You are an expert healthcare communication coach. Evaluate this pharmacy student's response and provide detailed coaching feedback.

Patient Context: %s
Student Response: %s

Examples of scoring:

GREAT empathy (score: great):
- "I can see this is really frightening for you, and that's completely understandable given what you're experiencing. Let's work through this together step by step."
- "It sounds like you're carrying a lot of worry about your family right now. That shows how much you care about them, and I want to make sure we address all your concerns."

GOOD empathy (score: good):
- "I understand this must be very difficult for you. Let's discuss your treatment options."
- "I can see you're worried. It's completely normal to feel this way."

OK empathy (score: ok):
- "I see you're concerned about this. Let me explain what we can do."
- "That sounds difficult. Here's what I recommend."

BAD empathy (score: bad):
- "That's not my problem."
- "Just take the medication."
- "Don't worry about it."

UNREALISTIC responses (flag: unrealistic):
- Telling terminal cancer patient "You'll be fine tomorrow"
- Promising miraculous cures
- Dismissing serious symptoms
- "This medication will definitely cure you completely"

COACHING FEEDBACK:
Provide specific, actionable feedback including:
- What the student did well
- Areas for improvement
- Alternative phrasing suggestions
- Why certain approaches work better
- How to strengthen empathetic communication

Respond in JSON format:
{
    "empathy_score": "bad|ok|good|great",
    "realism_flag": "realistic|unrealistic",
    "feedback": "Detailed coaching feedback with specific suggestions and alternative phrasing examples"
}`, patientContext, studentResponse)
}

// ParseEvaluation decodes the scoring model's reply. Code fences and
// surrounding prose are tolerated; anything unparsable yields the
// neutral default.
func ParseEvaluation(raw string) *Evaluation {
	text := strings.TrimSpace(raw)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(text), &eval); err != nil {
		return NeutralEvaluation("Unable to parse evaluation")
	}
	if eval.EmpathyScore == "" || eval.RealismFlag == "" {
		return NeutralEvaluation("Unable to parse evaluation")
	}
	return &eval
}
