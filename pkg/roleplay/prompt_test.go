package roleplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreetingTrigger(t *testing.T) {
	trigger := GreetingTrigger("John")
	assert.Contains(t, trigger, "Greet me")
	assert.Contains(t, trigger, "John")
	assert.True(t, IsGreetingTrigger(trigger))
	assert.False(t, IsGreetingTrigger("How long have you been coughing?"))
}

func TestBuildCondensePrompt(t *testing.T) {
	history := []Turn{
		{Role: "human", Content: "Hello"},
		{Role: "ai", Content: "Hi, my chest hurts."},
	}

	prompt := BuildCondensePrompt(history, "Where does it hurt?")
	assert.Contains(t, prompt, "standalone question")
	assert.Contains(t, prompt, "my chest hurts")
	assert.Contains(t, prompt, "Follow up message: Where does it hurt?")
}
