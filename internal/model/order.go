// internal/model/order.go
package model

import "time"

// Store to jeden kanał sprzedaży (Amazon, eBay, strona www...)
type Store struct {
	Name string `json:"name"` // używane w nazwach plików i jako partycja w ledgerze
	ID   string `json:"id"`   // storeId po stronie źródła zamówień
}

// Order – zamówienie "awaiting shipment" tak jak przyszło ze źródła
type Order struct {
	Number   string
	Customer string
	Date     time.Time
	Items    []Item
}

type Item struct {
	SKU      string
	Name     string // opis z aukcji/sklepu, zastępuje pusty SKU
	Quantity int
}

// LogEntry – wpis do logu zamówień (nowe i stare), kolejność jak w odpowiedzi API
type LogEntry struct {
	Number   string
	Customer string
	Date     time.Time
	IsNew    bool
	Items    []Item
}

// SKUTotal – suma ilości per surowy SKU po wszystkich nowych zamówieniach
type SKUTotal struct {
	SKU      string
	Quantity int
}

type CustomerOrders struct {
	Customer string
	Numbers  []string
}

// QuantityRow – pozycja zamówienia z ilością > 1 (raport QC)
type QuantityRow struct {
	Number   string
	Customer string
	SKU      string
	Quantity int
}
