// Package chatbot answers free text with a canned reply chosen by keyword overlap.
package chatbot

import (
	"math/rand"
	"strings"
)

const (
	DefaultIntent = "default"
	EmptyReply    = "Please enter a message."
)

type Intent struct {
	Name      string
	Keywords  []string
	Responses []string
}

// Intents are scored in this order; on a tie the earlier one wins.
var Intents = []Intent{
	{
		Name:      "greeting",
		Keywords:  []string{"hi", "hello", "hey", "greetings"},
		Responses: []string{"Hey! 👋 What can I help you with?", "Hello! How can I assist you today?"},
	},
	{
		Name:      "goodbye",
		Keywords:  []string{"bye", "goodbye", "see you", "farewell"},
		Responses: []string{"Goodbye! 👋", "See you soon!"},
	},
	{
		Name:      "thanks",
		Keywords:  []string{"thanks", "thank you", "appreciate"},
		Responses: []string{"You're welcome! 🙂", "Happy to help!"},
	},
	{
		Name:      "schedule",
		Keywords:  []string{"schedule", "timetable", "class time", "routine"},
		Responses: []string{"You can view your timetable in the Timetable section.", "Check your schedule page for class timings."},
	},
	{
		Name:      "reminder",
		Keywords:  []string{"reminder", "alert", "note", "remember"},
		Responses: []string{"Add reminders from the Reminders page.", "Set alerts to never miss important events."},
	},
	{
		Name:      "upload",
		Keywords:  []string{"upload", "files", "pdf", "documents"},
		Responses: []string{"Upload files under the Upload tab.", "You can upload PDFs and documents easily."},
	},
	{
		Name:      "assignment",
		Keywords:  []string{"assignment", "homework", "task"},
		Responses: []string{"Track your assignments in the Assignments section.", "Check your tasks and deadlines here."},
	},
}

var DefaultResponses = []string{
	"I'm not sure I understand. Could you rephrase?",
	"Sorry, I didn't get that. Please ask differently.",
}

// Selector returns an index in [0, n).
type Selector func(n int) int

type compiledIntent struct {
	name      string
	keywords  map[string]struct{}
	responses []string
}

type Bot struct {
	intents  []compiledIntent
	fallback []string
	pick     Selector
}

type Option func(*Bot)

// WithSelector replaces the random reply choice, e.g. with a fixed index in tests.
func WithSelector(pick Selector) Option {
	return func(b *Bot) {
		b.pick = pick
	}
}

// WithIntents replaces the built-in intents and default responses.
func WithIntents(intents []Intent, fallback []string) Option {
	return func(b *Bot) {
		b.intents = compile(intents)
		b.fallback = fallback
	}
}

func New(opts ...Option) *Bot {
	b := &Bot{
		intents:  compile(Intents),
		fallback: DefaultResponses,
		pick:     rand.Intn,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func compile(intents []Intent) []compiledIntent {
	result := make([]compiledIntent, 0, len(intents))
	for _, intent := range intents {
		keywords := make(map[string]struct{}, len(intent.Keywords))
		for _, kw := range intent.Keywords {
			if normalized := normalizeKeyword(kw); normalized != "" {
				keywords[normalized] = struct{}{}
			}
		}
		result = append(result, compiledIntent{
			name:      intent.Name,
			keywords:  keywords,
			responses: intent.Responses,
		})
	}

	return result
}

// Match returns the name of the best scoring intent, or DefaultIntent when no
// keyword overlaps the message.
func (b *Bot) Match(message string) string {
	tokens := map[string]struct{}{}
	for _, token := range Tokenize(message) {
		tokens[token] = struct{}{}
	}

	best, bestScore := DefaultIntent, 0
	for _, intent := range b.intents {
		score := 0
		for token := range tokens {
			if _, ok := intent.keywords[token]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = intent.name, score
		}
	}

	return best
}

// Reply answers message with one of the canned responses of its intent.
func (b *Bot) Reply(message string) string {
	_, reply := b.Respond(message)
	return reply
}

// Respond is Reply that also reports the matched intent. A blank message
// matches no intent and gets EmptyReply.
func (b *Bot) Respond(message string) (intent, reply string) {
	if strings.TrimSpace(message) == "" {
		return "", EmptyReply
	}

	responses := b.fallback
	intent = b.Match(message)
	for _, candidate := range b.intents {
		if candidate.name == intent && len(candidate.responses) > 0 {
			responses = candidate.responses
			break
		}
	}
	if len(responses) == 0 {
		return intent, EmptyReply
	}

	return intent, responses[b.pick(len(responses))]
}
