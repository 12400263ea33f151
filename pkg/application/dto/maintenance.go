package dto

// MissingIngredient is a recipe line name with no catalog product
type MissingIngredient struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// FixLinksReport is the outcome of backfilling recipe line product references
type FixLinksReport struct {
	Fixed              int                 `json:"fixed"`
	Missing            int                 `json:"missing"`
	Ambiguous          int                 `json:"ambiguous"`
	Failed             int                 `json:"failed"`
	MissingIngredients []MissingIngredient `json:"missingIngredients"`
}

// CleanupReport is the outcome of the duplicate recipe sweep
type CleanupReport struct {
	DuplicatesFound int      `json:"duplicatesFound"` // duplicated names
	RecipesDeleted  int      `json:"recipesDeleted"`
	DeletedIDs      []string `json:"deletedIds"`
}
