package recipe

import "sort"

// DefaultLimit caps the number of recommendations returned.
const DefaultLimit = 100

// Candidate is a recipe considered for recommendation with the ids of the
// ingredients it requires. Duplicate ids are counted once.
type Candidate struct {
	Recipe        Recipe
	IngredientIDs []int64
}

// Stats summarises how well a pantry covers a recipe.
type Stats struct {
	Needed  int
	Have    int
	Missing int
}

// Ranked is a recipe with its coverage stats.
type Ranked struct {
	Recipe Recipe
	Stats  Stats
}

// Pantry is the set of ingredient ids a user holds.
type Pantry map[int64]struct{}

// NewPantry builds a Pantry from ingredient ids, duplicates collapsed.
func NewPantry(ids []int64) Pantry {
	p := make(Pantry, len(ids))
	for _, id := range ids {
		p[id] = struct{}{}
	}
	return p
}

// Has reports whether the pantry holds the ingredient.
func (p Pantry) Has(id int64) bool {
	_, ok := p[id]
	return ok
}

// ComputeStats counts distinct required ingredients and how many the pantry holds.
func ComputeStats(ingredientIDs []int64, pantry Pantry) Stats {
	seen := make(map[int64]struct{}, len(ingredientIDs))
	var s Stats
	for _, id := range ingredientIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.Needed++
		if pantry.Has(id) {
			s.Have++
		}
	}
	s.Missing = s.Needed - s.Have
	return s
}

// Rank keeps candidates sharing at least one ingredient with the pantry and
// orders them by fewest missing, then most held, then fewest needed, then id.
// At most limit results are returned.
func Rank(candidates []Candidate, pantry Pantry, limit int) ([]Ranked, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	ranked := make([]Ranked, 0, len(candidates))
	if len(pantry) == 0 {
		return ranked, nil
	}

	for _, c := range candidates {
		stats := ComputeStats(c.IngredientIDs, pantry)
		if stats.Have == 0 {
			continue
		}
		ranked = append(ranked, Ranked{Recipe: c.Recipe, Stats: stats})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Stats, ranked[j].Stats
		if a.Missing != b.Missing {
			return a.Missing < b.Missing
		}
		if a.Have != b.Have {
			return a.Have > b.Have
		}
		if a.Needed != b.Needed {
			return a.Needed < b.Needed
		}
		return ranked[i].Recipe.ID < ranked[j].Recipe.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
