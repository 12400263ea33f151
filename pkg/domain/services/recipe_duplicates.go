package services

import (
	"sort"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// DuplicateGroup is a set of recipes sharing one normalized name
type DuplicateGroup struct {
	Name string
	// Keep is the recipe with the most ingredient lines, oldest on ties
	Keep *entities.Recipe
	// Delete holds the siblings without any ingredient line
	Delete []*entities.Recipe
	// Retained holds the siblings that have lines and are left alone
	Retained []*entities.Recipe
}

// FindDuplicateRecipes groups recipes by normalized name and decides, for
// every group of more than one, which recipe stays and which may be removed.
// Siblings are never merged; only empty ones are marked for deletion.
func FindDuplicateRecipes(recipes []*entities.Recipe) []DuplicateGroup {
	byName := make(map[string][]*entities.Recipe)
	for _, recipe := range recipes {
		key := entities.NormalizeName(recipe.Name)
		byName[key] = append(byName[key], recipe)
	}

	names := make([]string, 0, len(byName))
	for name, group := range byName {
		if len(group) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	groups := make([]DuplicateGroup, 0, len(names))
	for _, name := range names {
		group := append([]*entities.Recipe(nil), byName[name]...)
		sort.SliceStable(group, func(i, j int) bool {
			li, lj := len(group[i].Ingredients), len(group[j].Ingredients)
			if li != lj {
				return li > lj
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})

		dup := DuplicateGroup{
			Name:     name,
			Keep:     group[0],
			Delete:   make([]*entities.Recipe, 0),
			Retained: make([]*entities.Recipe, 0),
		}
		for _, sibling := range group[1:] {
			if len(sibling.Ingredients) == 0 {
				dup.Delete = append(dup.Delete, sibling)
			} else {
				dup.Retained = append(dup.Retained, sibling)
			}
		}
		groups = append(groups, dup)
	}

	return groups
}
