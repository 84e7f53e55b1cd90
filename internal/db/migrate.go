package db

import (
	"fmt"
)

// Migrate tworzy/aktualizuje schemat ledgera (idempotentnie).
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&LedgerOrder{},
		&LedgerItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
