package chatbot

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above across after afterwards again against all almost alone along already also
		although always am among amongst an and another any anyhow anyone anything anyway anywhere
		are around as at back be became because become becomes becoming been before beforehand
		behind being below beside besides between beyond both but by can cannot could d did do
		does doing done down during each either else elsewhere enough even ever every everyone
		everything everywhere except few for former formerly from further get give go had has have
		he hence her here hers herself him himself his how however i if in indeed into is it its
		itself just keep least less ll m made make many may me meanwhile might mine more moreover
		most mostly much must my myself namely neither never nevertheless next no nobody none noone
		nor not nothing now nowhere of off often on once one only onto or other others otherwise our
		ours ourselves out over own per perhaps please put quite rather re really s same say see seem
		seemed seeming seems several she should show since so some somehow someone something
		sometime sometimes somewhere still such t take than that the their them themselves then
		thence there thereafter thereby therefore therein these they this those though through
		throughout thru thus to together too toward towards under unless until up upon us used
		using ve very via was we well were what whatever when whence whenever where whereas whereby
		wherein whether which while whither who whoever whole whom whose why will with within
		without would yet you your yours yourself yourselves
	`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// Tokenize lowercases text, splits it into words, drops stop words and
// punctuation, and reduces every remaining word to its Snowball stem.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if token := normalizeWord(w); token != "" {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

func normalizeWord(word string) string {
	if _, stop := stopWords[word]; stop {
		return ""
	}

	return english.Stem(word, false)
}

// normalizeKeyword maps a keyword into token space. Phrases stay as lowercase
// text: tokens are single words, so a phrase keyword never matches.
func normalizeKeyword(keyword string) string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if strings.ContainsFunc(keyword, unicode.IsSpace) {
		return keyword
	}

	return normalizeWord(keyword)
}
