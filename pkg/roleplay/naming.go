package roleplay

import (
	"fmt"
	"strings"

	"github.com/ssmubc/Empathetic-Communication/internal/constant"
)

const sessionNameMaxLen = 30

// ShouldNameSession reports whether the transcript is at the second
// real exchange, the only point at which a title is generated. The
// first human/ai pair is the synthetic greeting exchange, so the
// trigger condition is exactly two entries of each role.
func ShouldNameSession(turns []Turn) bool {
	var humans, ais int
	for _, turn := range turns {
		switch turn.Role {
		case constant.ChatMessageRoleHuman:
			humans++
		case constant.ChatMessageRoleAI:
			ais++
		}
		if humans > 2 || ais > 2 {
			return false
		}
	}
	return humans == 2 && ais == 2
}

// FirstExchange extracts the student message and model reply the title
// should describe: the second entry of each role, past the greeting
// pair.
func FirstExchange(turns []Turn) (student string, model string) {
	var humans, ais []string
	for _, turn := range turns {
		switch turn.Role {
		case constant.ChatMessageRoleHuman:
			humans = append(humans, turn.Content)
		case constant.ChatMessageRoleAI:
			ais = append(ais, turn.Content)
		}
	}
	if len(humans) >= 2 {
		student = humans[1]
	}
	if len(ais) >= 2 {
		model = ais[1]
	}
	return student, model
}

// BuildNamingPrompt asks the model for a short conversation title.
func BuildNamingPrompt(modelMessage, studentMessage string) string {
	return fmt.Sprintf(`You are given the first message from an AI and the first message from a student in a conversation.
Based on these two messages, come up with a name that describes the conversation.
The name should be less than 30 characters. ONLY OUTPUT THE NAME YOU GENERATED. NO OTHER TEXT.

AI Message:
%s

Student Message:
%s`, modelMessage, studentMessage)
}

// SanitizeSessionName trims quoting and enforces the length cap on a
// generated title.
func SanitizeSessionName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, "\"'")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return constant.DefaultSessionName
	}
	runes := []rune(name)
	if len(runes) > sessionNameMaxLen {
		name = strings.TrimSpace(string(runes[:sessionNameMaxLen]))
	}
	return name
}
