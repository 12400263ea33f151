package services

import (
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// MatchKind tells how a recipe line was joined to a stock record
type MatchKind int

const (
	Unmatched MatchKind = iota
	MatchedByProduct
	MatchedByName
)

// String method for MatchKind enum
func (k MatchKind) String() string {
	switch k {
	case Unmatched:
		return "unmatched"
	case MatchedByProduct:
		return "product"
	case MatchedByName:
		return "name"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of looking up the stock behind a recipe line.
// Stock is nil iff Kind is Unmatched.
type Resolution struct {
	Kind  MatchKind
	Stock *entities.StockRecord
}

// Matched reports whether a stock record was found
func (r Resolution) Matched() bool {
	return r.Kind != Unmatched && r.Stock != nil
}

// StockIndex joins recipe lines to a user's stock records. It is built once
// per request from a single read and never shared between requests.
type StockIndex struct {
	byProduct map[string]*entities.StockRecord
	byName    map[string]*entities.StockRecord
}

// NewStockIndex indexes records by product id and normalized product name.
// On key collisions the first record wins.
func NewStockIndex(records []*entities.StockRecord) *StockIndex {
	idx := &StockIndex{
		byProduct: make(map[string]*entities.StockRecord, len(records)),
		byName:    make(map[string]*entities.StockRecord, len(records)),
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if record.ProductID != "" {
			if _, exists := idx.byProduct[record.ProductID]; !exists {
				idx.byProduct[record.ProductID] = record
			}
		}
		if key := record.Key(); key != "" {
			if _, exists := idx.byName[key]; !exists {
				idx.byName[key] = record
			}
		}
	}

	return idx
}

// Resolve finds the stock record for a recipe line. A line carrying a product
// reference resolves only through it; otherwise the normalized ingredient
// name is used.
func (idx *StockIndex) Resolve(line entities.RecipeIngredient) Resolution {
	if line.HasProduct() {
		if record, ok := idx.byProduct[line.ProductID]; ok {
			return Resolution{Kind: MatchedByProduct, Stock: record}
		}
		return Resolution{Kind: Unmatched}
	}

	if record, ok := idx.LookupName(line.IngredientName); ok {
		return Resolution{Kind: MatchedByName, Stock: record}
	}
	return Resolution{Kind: Unmatched}
}

// LookupName finds a stock record by normalized product name
func (idx *StockIndex) LookupName(name string) (*entities.StockRecord, bool) {
	record, ok := idx.byName[entities.NormalizeName(name)]
	return record, ok
}

// Len returns the number of distinct names indexed
func (idx *StockIndex) Len() int {
	return len(idx.byName)
}
