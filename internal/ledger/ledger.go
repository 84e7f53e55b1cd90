// Package ledger trzyma historię zamówień per sklep i rozstrzyga, które
// zamówienia są nowe w tym przebiegu.
package ledger

import (
	"context"
	"errors"

	"github.com/bartek5186/ss2pick/internal/model"
)

// ErrLedgerUnavailable – baza nieosiągalna, cały przebieg do przerwania
var ErrLedgerUnavailable = errors.New("ledger unavailable")

type Ledger interface {
	// Record: znany numer -> is_new=false (pozycje z API tylko do logu),
	// nieznany -> zamówienie + pozycje w jednej transakcji, is_new=true.
	Record(ctx context.Context, store string, o model.Order) (model.LogEntry, error)

	// NewItemTotals – suma ilości per SKU po zamówieniach z is_new=true, po SKU
	NewItemTotals(ctx context.Context, store string) ([]model.SKUTotal, error)

	// MultiOrderCustomers – klienci z więcej niż jednym nowym zamówieniem
	MultiOrderCustomers(ctx context.Context, store string) ([]model.CustomerOrders, error)

	// MultiQuantityItems – pozycje nowych zamówień z ilością > 1
	MultiQuantityItems(ctx context.Context, store string) ([]model.QuantityRow, error)

	// ConsumeNew zdejmuje flagę is_new po udanym wygenerowaniu plików sklepu
	ConsumeNew(ctx context.Context, store string) (int64, error)

	Ping(ctx context.Context) error
}
