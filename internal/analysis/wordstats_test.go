package analysis

import "testing"

func TestWordStats_CountsAndNormalizes(t *testing.T) {
	texts := []string{
		"Amazing video about cooking. Cooking pasta!",
		"amazing COOKING tips",
	}
	stats := WordStats(texts)

	if stats["amazing"] != 2 {
		t.Errorf("amazing = %d, want 2", stats["amazing"])
	}
	if stats["cooking"] != 3 {
		t.Errorf("cooking = %d, want 3", stats["cooking"])
	}
	if stats["pasta"] != 1 {
		t.Errorf("pasta = %d, want 1", stats["pasta"])
	}
	if _, ok := stats["Amazing"]; ok {
		t.Error("found non-normalized key \"Amazing\"")
	}
}

func TestWordStats_SkipsStopwordsAndShortWords(t *testing.T) {
	stats := WordStats([]string{"the cat and a dog are in it"})

	for _, banned := range []string{"the", "and", "a", "are", "in", "it"} {
		if _, ok := stats[banned]; ok {
			t.Errorf("stopword or short word %q should be excluded", banned)
		}
	}
	if stats["cat"] != 1 || stats["dog"] != 1 {
		t.Errorf("cat=%d dog=%d, want 1 and 1", stats["cat"], stats["dog"])
	}
}

func TestWordStats_EmptyInput(t *testing.T) {
	stats := WordStats(nil)
	if stats == nil {
		t.Fatal("WordStats(nil) returned nil map")
	}
	if len(stats) != 0 {
		t.Errorf("WordStats(nil) has %d entries, want 0", len(stats))
	}
}
