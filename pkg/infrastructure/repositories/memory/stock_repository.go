package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// StockRepository provides in-memory inventory storage
type StockRepository struct {
	mu      sync.RWMutex
	records []entities.StockRecord
	byID    map[string]int
	now     func() time.Time
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository() *StockRepository {
	return &StockRepository{
		records: []entities.StockRecord{},
		byID:    make(map[string]int),
		now:     time.Now,
	}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// LoadStock loads stock records into the repository
func (r *StockRepository) LoadStock(records []*entities.StockRecord) error {
	for _, record := range records {
		if err := r.SaveStock(context.Background(), record); err != nil {
			return err
		}
	}
	return nil
}

// ListStock returns the user's stock records in insertion order
func (r *StockRepository) ListStock(ctx context.Context, userID string) ([]*entities.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*entities.StockRecord, 0)
	for i := range r.records {
		if r.records[i].UserID == userID {
			record := r.records[i]
			records = append(records, &record)
		}
	}
	return records, nil
}

// SaveStock inserts or replaces a stock record
func (r *StockRepository) SaveStock(ctx context.Context, record *entities.StockRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("%w: stock id cannot be empty", entities.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *record
	if saved.Version < 1 {
		saved.Version = 1
	}
	if index, exists := r.byID[record.ID]; exists {
		r.records[index] = saved
		return nil
	}
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, saved)
	return nil
}

func (r *StockRepository) UpdateQuantity(ctx context.Context, userID, stockID string, quantity decimal.Decimal, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.byID[stockID]
	if !exists || r.records[index].UserID != userID {
		return 0, fmt.Errorf("stock %s: %w", stockID, entities.ErrNotFound)
	}

	record := &r.records[index]
	if expectedVersion > 0 && record.Version != expectedVersion {
		return 0, fmt.Errorf("stock %s at version %d, expected %d: %w", stockID, record.Version, expectedVersion, entities.ErrStaleStock)
	}

	record.Quantity = quantity
	record.Version++
	record.UpdatedAt = r.now()
	return record.Version, nil
}

// ProductRepository provides in-memory storage of the product catalog
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]entities.Product
}

// NewProductRepository creates a new in-memory product catalog
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products: make(map[string]entities.Product, expectedProducts),
	}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the catalog
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		if err := r.SaveProduct(context.Background(), product); err != nil {
			return err
		}
	}
	return nil
}

// ListProducts returns the catalog sorted by name
func (r *ProductRepository) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*entities.Product, 0, len(r.products))
	for _, product := range r.products {
		p := product
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool {
		ni, nj := strings.ToLower(products[i].Name), strings.ToLower(products[j].Name)
		if ni != nj {
			return ni < nj
		}
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *ProductRepository) SaveProduct(ctx context.Context, product *entities.Product) error {
	if product == nil || product.ID == "" {
		return fmt.Errorf("%w: product id cannot be empty", entities.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}
