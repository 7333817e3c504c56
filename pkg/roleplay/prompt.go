package roleplay

import (
	"fmt"
	"strings"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
)

// PromptParams parameterize the patient persona for one session.
type PromptParams struct {
	PatientName   string
	PatientAge    string
	PatientPrompt string
	SystemPrompt  string // group-level instructions
	LLMCompletion bool
}

// GreetingTrigger is the synthetic opening message sent on behalf of the
// student when a session starts with no message content.
func GreetingTrigger(patientName string) string {
	return fmt.Sprintf("Greet me and then ask me a question related to the patient: %s.", patientName)
}

// IsGreetingTrigger reports whether a student message is the synthetic
// session opener rather than a real reply.
func IsGreetingTrigger(message string) bool {
	return strings.Contains(message, constant.GreetingTriggerMarker)
}

// BuildSystemPrompt renders the patient roleplay instructions with the
// retrieved document chunks inlined as hints.
func BuildSystemPrompt(params PromptParams, contextChunks []string) string {
	completion := `Once I, the pharmacy student, have given you a diagnosis, politely leave the conversation and wish me goodbye.
Regardless if I have given you the proper diagnosis or not for the patient you are pretending to be, stop talking to me.`
	if params.LLMCompletion {
		completion = fmt.Sprintf(`Continue this process until you determine that me, the pharmacy student, has properly diagnosed the patient you are pretending to be.
Once the proper diagnosis is provided, include %s in your response and do not continue the conversation.`, constant.DiagnosisSentinel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a patient, I am a pharmacy student. Your name is %s and you are going to pretend to be a patient talking to me, a pharmacy student.
You are not the pharmacy student. You are the patient. Look at the document(s) provided to you and act as a patient with those symptoms.
Please pay close attention to this: %s
Start the conversation by saying Hello! I'm %s, I am %s years old, and then further talk about the symptoms you have.
Here are some additional details about your personality, symptoms, or overall condition: %s
%s
Use the following document(s) to provide hints as a patient to me, the pharmacy student. Use three sentences maximum when describing your symptoms to provide clues to me, the pharmacy student.
End each clue with a question that pushes me to the correct diagnosis. I might ask you questions or provide my thoughts as statements.
Again, YOU ARE SUPPOSED TO ACT AS THE PATIENT. I AM THE PHARMACY STUDENT.

Documents:
`, params.PatientName, params.SystemPrompt, params.PatientName, params.PatientAge, params.PatientPrompt, completion)

	if len(contextChunks) == 0 {
		b.WriteString("(no documents available)\n")
	}
	for _, chunk := range contextChunks {
		b.WriteString(chunk)
		b.WriteString("\n---\n")
	}
	return b.String()
}

// BuildCondensePrompt asks the model to fold the prior transcript into
// a standalone retrieval query, so pronouns in the new message still
// hit the right chunks.
func BuildCondensePrompt(history []Turn, message string) string {
	var b strings.Builder
	b.WriteString("Given the following conversation between a pharmacy student and a mock patient, ")
	b.WriteString("rephrase the follow up message into a standalone question that contains all context needed to answer it. ")
	b.WriteString("Do not answer the question. Respond with the standalone question only.\n\nConversation:\n")
	for _, turn := range history {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nFollow up message: ")
	b.WriteString(message)
	return b.String()
}

// Turn is one transcript entry, role "human" or "ai".
type Turn struct {
	Role    string
	Content string
}
