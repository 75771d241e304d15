package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello"}, Tokenize("Hello, there!"))
	assert.Equal(t, []string{"file"}, Tokenize("my FILES"))
	assert.Empty(t, Tokenize("?!... ,"))
}

func TestMatch(t *testing.T) {
	bot := New()

	tests := []struct {
		message string
		want    string
	}{
		{"hello there", "greeting"},
		{"Hi!", "greeting"},
		{"I need help with my homework", "assignment"},
		{"where do I upload my documents?", "upload"},
		{"thanks a lot", "thanks"},
		{"show me my timetable", "schedule"},
		{"set a reminder", "reminder"},
		{"bye", "goodbye"},
		{"xyzzy plugh", DefaultIntent},
		{"see you", DefaultIntent},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, bot.Match(tt.message))
		})
	}
}

func TestMatchTieGoesToEarlierIntent(t *testing.T) {
	bot := New()
	assert.Equal(t, "greeting", bot.Match("hello, homework"))
	assert.Equal(t, "assignment", bot.Match("homework task upload"))
}

func TestReplyUsesSelector(t *testing.T) {
	bot := New(WithSelector(func(n int) int { return n - 1 }))
	assert.Equal(t, "Hello! How can I assist you today?", bot.Reply("hello"))

	bot = New(WithSelector(func(int) int { return 0 }))
	assert.Equal(t, "Hey! 👋 What can I help you with?", bot.Reply("hello"))
}

func TestReplyFallback(t *testing.T) {
	bot := New()
	for i := 0; i < 20; i++ {
		assert.Contains(t, DefaultResponses, bot.Reply("quantum chromodynamics"))
	}
}

func TestReplyEmpty(t *testing.T) {
	assert.Equal(t, EmptyReply, New().Reply("   "))
}

func TestWithIntents(t *testing.T) {
	bot := New(
		WithIntents([]Intent{{Name: "pizza", Keywords: []string{"Pizza"}, Responses: []string{"Yum"}}}, []string{"Hmm"}),
		WithSelector(func(int) int { return 0 }),
	)
	assert.Equal(t, "Yum", bot.Reply("PIZZAS please"))
	assert.Equal(t, "Hmm", bot.Reply("hello"))
}

func TestRespondReportsIntent(t *testing.T) {
	bot := New(WithSelector(func(int) int { return 0 }))

	intent, _ := bot.Respond("thanks a lot")
	assert.Equal(t, "thanks", intent)

	intent, reply := bot.Respond("")
	assert.Empty(t, intent)
	assert.Equal(t, EmptyReply, reply)
}
