package analysis

import (
	"strings"
	"unicode"
)

// Readability holds the Flesch–Kincaid grade level and the Flesch reading
// ease of a text. Both values are finite and non-negative.
type Readability struct {
	GradeLevel  float64
	ReadingEase float64
}

// Score computes readability for one text. It is a pure function: the same
// input always yields the same output, and it never fails — empty or
// degenerate text scores {0, 0}.
func Score(text string) Readability {
	words := splitWords(text)
	if len(words) == 0 {
		return Readability{}
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord

	return Readability{
		GradeLevel:  clampNonNegative(grade),
		ReadingEase: clampNonNegative(ease),
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// splitWords breaks text into tokens containing at least one letter.
func splitWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			words = append(words, f)
		}
	}
	return words
}

// countSentences counts terminal punctuation runs. Text without any
// terminator counts as one sentence.
func countSentences(text string) int {
	n := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				n++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	return n
}

// countSyllables approximates syllables as vowel groups, with the usual
// silent-e adjustment. Every word counts at least one.
func countSyllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range w {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(strings.TrimRightFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r)
	}), "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
