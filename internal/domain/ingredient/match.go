package ingredient

import "sort"

const (
	// DefaultMatchThreshold is the score a catalog entry must exceed to be
	// reused for a submitted name.
	DefaultMatchThreshold = 0.7
	// DefaultSearchThreshold is the score a catalog entry must exceed to
	// appear in a catalog search.
	DefaultSearchThreshold = 0.3
)

// Thresholds configures the two fuzzy cut-offs. Both comparisons are strict.
type Thresholds struct {
	Match  float64
	Search float64
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Match: DefaultMatchThreshold, Search: DefaultSearchThreshold}
}

// Scored pairs a catalog entry with its similarity to a query.
type Scored struct {
	Ingredient Ingredient
	Score      float64
}

// Score rates every candidate against query and keeps those scoring strictly
// above threshold, ordered by score descending then id ascending.
func Score(candidates []Ingredient, query string, sim Similarity, threshold float64) []Scored {
	q := Normalize(query)
	scored := make([]Scored, 0)
	for _, c := range candidates {
		s := sim(Normalize(c.Name), q)
		if s > threshold {
			scored = append(scored, Scored{Ingredient: c, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ingredient.ID < scored[j].Ingredient.ID
	})

	return scored
}

// BestMatch returns the highest scoring candidate above threshold, ties
// going to the lowest id.
func BestMatch(candidates []Ingredient, name string, sim Similarity, threshold float64) (Ingredient, bool) {
	scored := Score(candidates, name, sim, threshold)
	if len(scored) == 0 {
		return Ingredient{}, false
	}
	return scored[0].Ingredient, true
}
