// internal/db/models.go
package db

import "time"

// ledger_orders – wszystkie zamówienia kiedykolwiek widziane, partycja = store
type LedgerOrder struct {
	ID           uint         `gorm:"primaryKey"`
	Store        string       `gorm:"size:64;not null;uniqueIndex:uniq_store_order,priority:1;index:idx_store_new,priority:1"`
	OrderNumber  string       `gorm:"size:100;not null;uniqueIndex:uniq_store_order,priority:2"`
	CustomerName string       `gorm:"size:100"`
	OrderDate    time.Time
	IsNew        bool         `gorm:"not null;index:idx_store_new,priority:2"` // true dopóki zamówienie nie trafiło na pick listę
	Items        []LedgerItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
}

func (LedgerOrder) TableName() string { return "ledger_orders" }

// ledger_items – pozycje zamówienia, nigdy nie modyfikowane
type LedgerItem struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index;not null"`
	SKU      string `gorm:"column:sku;size:255;index"`
	Quantity int    `gorm:"not null"`
}

func (LedgerItem) TableName() string { return "ledger_items" }
