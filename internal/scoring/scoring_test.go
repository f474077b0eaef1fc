package scoring_test

import (
	"math"
	"testing"

	"github.com/flowbit/flowbit/internal/scoring"
)

type label string

var colors = scoring.Table[label]{
	{Category: "warm", Keywords: []string{"red", "orange", "yellow"}},
	{Category: "cool", Keywords: []string{"blue", "green"}},
	{Category: "neutral", Keywords: []string{"gray", "beige"}},
}

func sum(scores []float64) float64 {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total
}

func TestScoreSumsToOne(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no matches", "nothing relevant here"},
		{"single match", "the sky is blue"},
		{"matches across categories", "red and blue and gray"},
		{"all keywords", "red orange yellow blue green gray beige"},
		{"empty content", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := colors.Score(tt.content)

			if len(d.Categories) != len(colors) {
				t.Fatalf("categories: got %d, want %d", len(d.Categories), len(colors))
			}
			if got := sum(d.Scores); math.Abs(got-1.0) > 1e-9 {
				t.Errorf("scores sum to %f, want 1", got)
			}
		})
	}
}

func TestScoreUniformFallback(t *testing.T) {
	d := colors.Score("no signal at all")

	want := 1.0 / 3.0
	for i, s := range d.Scores {
		if math.Abs(s-want) > 1e-9 {
			t.Errorf("score[%d] = %f, want %f", i, s, want)
		}
	}
}

func TestScorePresenceNotFrequency(t *testing.T) {
	// "blue" three times still counts once
	d := colors.Score("blue blue blue red")

	var warm, cool float64
	for i, c := range d.Categories {
		switch c {
		case "warm":
			warm = d.Scores[i]
		case "cool":
			cool = d.Scores[i]
		}
	}

	if warm != cool {
		t.Errorf("warm = %f, cool = %f; repeated keyword should not outweigh single hit", warm, cool)
	}
}

func TestArgMaxTieBreak(t *testing.T) {
	shared := scoring.Table[label]{
		{Category: "first", Keywords: []string{"alpha", "beta"}},
		{Category: "second", Keywords: []string{"alpha", "beta"}},
	}

	if got := shared.ArgMax("alpha beta"); got != "first" {
		t.Errorf("ArgMax = %s, want first (declaration order wins ties)", got)
	}

	// zero counts everywhere also resolves to the first entry
	if got := shared.ArgMax("no keywords"); got != "first" {
		t.Errorf("ArgMax = %s, want first for zero counts", got)
	}
}

func TestArgMaxHighestCount(t *testing.T) {
	if got := colors.ArgMax("blue green beige"); got != "cool" {
		t.Errorf("ArgMax = %s, want cool", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	content := "red blue gray orange"

	first := colors.Score(content)
	for range 10 {
		d := colors.Score(content)
		for i := range d.Scores {
			if d.Scores[i] != first.Scores[i] {
				t.Fatalf("score[%d] changed between runs: %f vs %f", i, d.Scores[i], first.Scores[i])
			}
		}
	}
}

func TestBestTieBreak(t *testing.T) {
	d := scoring.Distribution[label]{
		Categories: []label{"a", "b", "c"},
		Scores:     []float64{0.4, 0.4, 0.2},
	}

	best, score := d.Best()
	if best != "a" || score != 0.4 {
		t.Errorf("Best = (%s, %f), want (a, 0.4)", best, score)
	}
}

func TestCaseInsensitive(t *testing.T) {
	if got := colors.ArgMax("BLUE and GREEN"); got != "cool" {
		t.Errorf("ArgMax = %s, want cool for uppercase input", got)
	}
}
