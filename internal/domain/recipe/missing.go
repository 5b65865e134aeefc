package recipe

import "net/url"

// RequiredIngredients returns the distinct names of the linked ingredients in
// link order.
func RequiredIngredients(ingredients []IngredientRef) []string {
	seen := make(map[int64]struct{}, len(ingredients))
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := seen[ing.ID]; ok {
			continue
		}
		seen[ing.ID] = struct{}{}
		names = append(names, ing.Name)
	}
	return names
}

// MissingIngredients returns the required names whose ingredient the pantry
// does not hold.
func MissingIngredients(ingredients []IngredientRef, pantry Pantry) []string {
	seen := make(map[int64]struct{}, len(ingredients))
	names := make([]string, 0)
	for _, ing := range ingredients {
		if _, ok := seen[ing.ID]; ok {
			continue
		}
		seen[ing.ID] = struct{}{}
		if !pantry.Has(ing.ID) {
			names = append(names, ing.Name)
		}
	}
	return names
}

// NormalizeImageURL unwraps proxied image links: when raw carries a "url"
// query parameter its decoded value is returned, even when empty. Otherwise
// raw is returned unchanged.
func NormalizeImageURL(raw string) string {
	if raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	values, ok := u.Query()["url"]
	if !ok || len(values) == 0 {
		return raw
	}
	// the last occurrence wins when the parameter repeats
	return values[len(values)-1]
}

// NormalizeImageURLPtr applies NormalizeImageURL to an optional URL.
func NormalizeImageURLPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := NormalizeImageURL(*raw)
	return &normalized
}
