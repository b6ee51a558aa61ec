package analysis

import (
	"strings"
	"unicode"
)

// Sentiment tags. The emoticon strings are part of the API response format.
const (
	SentimentStrongPositive = ":-))"
	SentimentPositive       = ":-)"
	SentimentNegative       = ":-("
	SentimentNeutral        = ":-|"
)

var positiveWords = map[string]struct{}{
	"happy": {}, "amazing": {}, "love": {}, "wonderful": {}, "great": {},
	"awesome": {}, "excellent": {}, "fantastic": {}, "good": {}, "best": {},
	"beautiful": {}, "enjoy": {}, "enjoyed": {}, "perfect": {}, "brilliant": {},
	"joy": {}, "fun": {}, "nice": {}, "loved": {}, "favorite": {},
}

var negativeWords = map[string]struct{}{
	"terrible": {}, "awful": {}, "hate": {}, "bad": {}, "worst": {},
	"horrible": {}, "sad": {}, "angry": {}, "disappointing": {}, "poor": {},
	"boring": {}, "ugly": {}, "disgusting": {}, "annoying": {}, "fail": {},
	"failed": {}, "wrong": {}, "hated": {}, "broken": {}, "useless": {},
}

// strongPositiveMin is the number of positive hits, with zero negative hits,
// required for the strongly-positive tag.
const strongPositiveMin = 8

// ClassifySentiment classifies an ordered list of texts into one sentiment
// tag by counting signal-word occurrences across all of them. Empty input and
// positive/negative ties yield the neutral tag. Pure and never fails.
func ClassifySentiment(texts []string) string {
	pos, neg := 0, 0
	for _, text := range texts {
		for _, word := range tokenize(text) {
			if _, ok := positiveWords[word]; ok {
				pos++
			}
			if _, ok := negativeWords[word]; ok {
				neg++
			}
		}
	}

	switch {
	case pos > neg:
		if neg == 0 && pos >= strongPositiveMin {
			return SentimentStrongPositive
		}
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
