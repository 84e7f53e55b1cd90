// internal/integrations/types.go
package integrations

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/rs/zerolog"
)

// ErrSourceUnavailable – refresh/pobranie zamówień nieudane; bez danych nie ma plików
var ErrSourceUnavailable = errors.New("order source unavailable")

// Source – skąd bierzemy zamówienia "awaiting shipment"
type Source interface {
	Name() string
	// Refresh prosi platformę o ponowny import zamówień ze sklepów.
	// Czekanie aż import się zakończy jest po stronie wywołującego.
	Refresh(ctx context.Context, storeIDs []string) error
	// AwaitingShipment – zamówienia sklepu, od najnowszych (order date DESC)
	AwaitingShipment(ctx context.Context, storeID string) ([]model.Order, error)
}

type Factory func(log zerolog.Logger, raw json.RawMessage) (Source, error)
