// Package scoring implements deterministic keyword scoring over closed
// category sets. Keyword tables are ordered: when two categories tie on raw
// counts, the one declared first wins. Tables never mutate after
// initialization and are safe for concurrent reads.
package scoring

import "strings"

// Entry pairs a category with its lowercase trigger keywords.
type Entry[C ~string] struct {
	Category C
	Keywords []string
}

// Table is an ordered keyword table. Declaration order is significant: it
// fixes iteration order for distributions and resolves argmax ties.
type Table[C ~string] []Entry[C]

// Distribution holds normalized scores per category in table declaration
// order. Scores sum to 1 within floating tolerance.
type Distribution[C ~string] struct {
	Categories []C
	Scores     []float64
}

// Best returns the category with the highest score. Ties resolve to the
// earliest declared category.
func (d Distribution[C]) Best() (C, float64) {
	best := 0
	for i := 1; i < len(d.Scores); i++ {
		if d.Scores[i] > d.Scores[best] {
			best = i
		}
	}
	return d.Categories[best], d.Scores[best]
}

// Counts returns the number of keywords per category present in content.
// A keyword counts once no matter how often it occurs.
func (t Table[C]) Counts(content string) []int {
	lower := strings.ToLower(content)
	counts := make([]int, len(t))

	for i, entry := range t {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				counts[i]++
			}
		}
	}

	return counts
}

// Score normalizes keyword counts into a distribution over the table's
// categories. When nothing matches, every category receives 1/n: no signal
// is not an error.
func (t Table[C]) Score(content string) Distribution[C] {
	counts := t.Counts(content)

	total := 0
	for _, c := range counts {
		total += c
	}

	d := Distribution[C]{
		Categories: make([]C, len(t)),
		Scores:     make([]float64, len(t)),
	}
	for i, entry := range t {
		d.Categories[i] = entry.Category
	}

	if total == 0 {
		uniform := 1.0 / float64(len(t))
		for i := range d.Scores {
			d.Scores[i] = uniform
		}
		return d
	}

	for i, c := range counts {
		d.Scores[i] = float64(c) / float64(total)
	}
	return d
}

// ArgMax returns the category with the highest raw count, resolving ties to
// the earliest declared category.
func (t Table[C]) ArgMax(content string) C {
	counts := t.Counts(content)

	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return t[best].Category
}
