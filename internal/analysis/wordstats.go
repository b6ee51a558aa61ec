package analysis

// stopwords excluded from word-frequency stats. Short function words only;
// the list deliberately stays small so domain terms are never swallowed.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "was": {}, "this": {}, "that": {}, "with": {},
	"have": {}, "has": {}, "from": {}, "they": {}, "will": {}, "its": {},
	"our": {}, "your": {},
}

// WordStats computes a case-normalized word-frequency mapping over the given
// texts. Words shorter than three characters and stopwords are skipped.
// Pure and never fails; empty input yields an empty (non-nil) map.
func WordStats(texts []string) map[string]int {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, word := range tokenize(text) {
			if len(word) < 3 {
				continue
			}
			if _, ok := stopwords[word]; ok {
				continue
			}
			freq[word]++
		}
	}
	return freq
}
