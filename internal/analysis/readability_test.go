package analysis

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestScore_EmptyText(t *testing.T) {
	r := Score("")
	if r.GradeLevel != 0 || r.ReadingEase != 0 {
		t.Errorf("empty text = {%.2f, %.2f}, want {0, 0}", r.GradeLevel, r.ReadingEase)
	}
}

func TestScore_PunctuationOnly(t *testing.T) {
	r := Score("... !!! ???")
	if r.GradeLevel != 0 || r.ReadingEase != 0 {
		t.Errorf("punctuation-only text = {%.2f, %.2f}, want {0, 0}", r.GradeLevel, r.ReadingEase)
	}
}

func TestScore_SimpleSentence(t *testing.T) {
	// 3 words, 1 sentence, 3 syllables:
	//   ease  = 206.835 - 1.015*3 - 84.6*1 = 119.19
	//   grade = 0.39*3 + 11.8*1 - 15.59 = -2.62, clamped to 0
	r := Score("The cat sat.")
	if !almostEqual(r.ReadingEase, 119.19, 0.01) {
		t.Errorf("reading ease = %.2f, want 119.19", r.ReadingEase)
	}
	if r.GradeLevel != 0 {
		t.Errorf("grade level = %.2f, want 0 (clamped)", r.GradeLevel)
	}
}

func TestScore_ComplexHarderThanSimple(t *testing.T) {
	simple := Score("The dog ran. The cat sat. It was fun.")
	hard := Score("University education necessitates extraordinary dedication and unprecedented organizational capabilities.")

	if hard.GradeLevel <= simple.GradeLevel {
		t.Errorf("hard grade %.2f should exceed simple grade %.2f",
			hard.GradeLevel, simple.GradeLevel)
	}
	if hard.ReadingEase >= simple.ReadingEase {
		t.Errorf("hard ease %.2f should be below simple ease %.2f",
			hard.ReadingEase, simple.ReadingEase)
	}
}

func TestScore_Deterministic(t *testing.T) {
	text := "A reasonably ordinary description of a video about cooking pasta at home."
	first := Score(text)
	for i := 0; i < 10; i++ {
		if got := Score(text); got != first {
			t.Fatalf("run %d: Score not deterministic: %+v != %+v", i, got, first)
		}
	}
}

func TestScore_NeverNegativeOrNaN(t *testing.T) {
	texts := []string{
		"ok",
		"Incomprehensibilities notwithstanding, onomatopoeia predominates.",
		"a. b. c. d. e.",
		"!!!",
		"word",
	}
	for _, text := range texts {
		r := Score(text)
		if r.GradeLevel < 0 || r.ReadingEase < 0 {
			t.Errorf("Score(%q) produced negative value: %+v", text, r)
		}
		if math.IsNaN(r.GradeLevel) || math.IsNaN(r.ReadingEase) ||
			math.IsInf(r.GradeLevel, 0) || math.IsInf(r.ReadingEase, 0) {
			t.Errorf("Score(%q) produced non-finite value: %+v", text, r)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"the", 1},
		{"happy", 2},
		{"amazing", 3},
		{"experience", 3},
		{"cake", 1},
		{"xyz", 1},
	}
	for _, tt := range tests {
		if got := countSyllables(tt.word); got != tt.want {
			t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"One. Two. Three.", 3},
		{"What?! Really...", 2},
		{"no terminator", 0},
	}
	for _, tt := range tests {
		if got := countSentences(tt.text); got != tt.want {
			t.Errorf("countSentences(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
