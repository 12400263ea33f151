package services

import (
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// LinkOutcome tells what happened when a recipe line was matched against the catalog
type LinkOutcome int

const (
	LinkMissing LinkOutcome = iota
	LinkFound
	LinkAmbiguous
)

// String method for LinkOutcome enum
func (o LinkOutcome) String() string {
	switch o {
	case LinkMissing:
		return "missing"
	case LinkFound:
		return "found"
	case LinkAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// ProductIndex groups catalog products by normalized name
type ProductIndex struct {
	byName map[string][]*entities.Product
}

// NewProductIndex builds the name index for a catalog snapshot
func NewProductIndex(products []*entities.Product) *ProductIndex {
	idx := &ProductIndex{byName: make(map[string][]*entities.Product)}
	for _, product := range products {
		key := entities.NormalizeName(product.Name)
		idx.byName[key] = append(idx.byName[key], product)
	}
	return idx
}

// Match picks the catalog product a dangling recipe line should point to.
// A candidate with the same unit wins; otherwise a lone candidate is taken.
// Several candidates without a unit match are ambiguous.
func (idx *ProductIndex) Match(line entities.RecipeIngredient) (*entities.Product, LinkOutcome) {
	candidates := idx.byName[entities.NormalizeName(line.IngredientName)]
	if len(candidates) == 0 {
		return nil, LinkMissing
	}

	for _, candidate := range candidates {
		if candidate.Unit == line.Unit {
			return candidate, LinkFound
		}
	}

	if len(candidates) == 1 {
		return candidates[0], LinkFound
	}
	return nil, LinkAmbiguous
}
