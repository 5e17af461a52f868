package location

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

const maxPhraseWords = 8

// roadCues open a location phrase; they may carry a one-letter Hebrew prefix
// such as ב or ל ("בכביש", "לצומת").
var roadCues = []string{"כביש", "צומת", "מחלף", "רחוב", "שדרות", "שד'", "כיכר", "גשר", "מנהרת", "שכונת"}

// placeCues must match a whole word
var placeCues = []string{"ליד", "סמוך", "בסמוך", "בין", "בכניסה", "ביציאה", "באזור", "בקרבת"}

const prefixLetters = "בלמוהשכ"

// ManualExtractor finds the first road or place cue in the text and returns
// the phrase running from it to the end of the clause.
type ManualExtractor struct{}

func NewManualExtractor() *ManualExtractor {
	return &ManualExtractor{}
}

func (e *ManualExtractor) Extract(text string) (string, bool) {
	words := strings.Fields(newsflash.NormalizeText(text))

	for i, word := range words {
		cue, ok := matchCue(trimPunctuation(word))
		if !ok {
			continue
		}

		phrase := []string{cue}
		if endsClause(word) {
			continue
		}
		for _, next := range words[i+1:] {
			if len(phrase) == maxPhraseWords {
				break
			}
			if w := trimPunctuation(next); w != "" {
				phrase = append(phrase, w)
			}
			if endsClause(next) {
				break
			}
		}

		if len(phrase) > 1 {
			return strings.Join(phrase, " "), true
		}
	}

	return "", false
}

// matchCue returns the word without its prefix letter when it opens a location
func matchCue(word string) (string, bool) {
	if slices.Contains(placeCues, word) {
		return word, true
	}

	for _, cue := range roadCues {
		if strings.HasPrefix(word, cue) {
			return word, true
		}
	}

	first, size := utf8.DecodeRuneInString(word)
	if size == 0 || !strings.ContainsRune(prefixLetters, first) {
		return "", false
	}
	rest := word[size:]
	for _, cue := range roadCues {
		if strings.HasPrefix(rest, cue) {
			return rest, true
		}
	}

	return "", false
}

func trimPunctuation(word string) string {
	return strings.Trim(word, ".,;:!?\"()[]")
}

func endsClause(word string) bool {
	return strings.ContainsAny(word[max(0, len(word)-1):], ".,;:!?")
}
