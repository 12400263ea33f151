package consumption

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// ledger overlays the stock levels written during one request on top of the
// snapshot the request started from, so that two lines drawing on the same
// record see each other's deduction.
type ledger struct {
	levels   map[string]decimal.Decimal
	versions map[string]int64
}

func newLedger() *ledger {
	return &ledger{
		levels:   make(map[string]decimal.Decimal),
		versions: make(map[string]int64),
	}
}

func (l *ledger) level(stock *entities.StockRecord) decimal.Decimal {
	if q, ok := l.levels[stock.ID]; ok {
		return q
	}
	return stock.Quantity
}

func (l *ledger) version(stock *entities.StockRecord) int64 {
	if v, ok := l.versions[stock.ID]; ok {
		return v
	}
	return stock.Version
}

func (l *ledger) commit(stockID string, quantity decimal.Decimal, version int64) {
	l.levels[stockID] = quantity
	l.versions[stockID] = version
}
