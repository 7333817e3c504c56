package constant

const (
	ChatMessageRoleHuman = "human"
	ChatMessageRoleAI    = "ai"

	// DiagnosisSentinel is the marker the model is told to emit once it
	// judges the student's diagnosis correct. It is stripped from every
	// user-visible reply.
	DiagnosisSentinel = "PROPER DIAGNOSIS ACHIEVED"

	// CompletionSentence is appended to the reply when the sentinel
	// confirms the diagnosis.
	CompletionSentence = " Congratulations! You have provided the proper diagnosis for me, the patient I am pretending to be! Please try other mock patients to continue your diagnosis skills! :)"

	// DefaultSessionName is used until the first real exchange generates
	// a descriptive title.
	DefaultSessionName = "New Chat"

	// GreetingTriggerMarker identifies the session-opening prompt so the
	// evaluation step can skip it.
	GreetingTriggerMarker = "Greet me"
)
