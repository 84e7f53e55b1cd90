package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/bartek5186/ss2pick/internal/db"
	"github.com/bartek5186/ss2pick/internal/model"
	"gorm.io/gorm"
)

// tabele tymczasowe raportów QC (żyją tylko na jednym połączeniu)
const (
	tmpMultiOrder = "qc_customer_with_multiple_order"
	tmpMultiQty   = "qc_order_with_multiple_quantity"
)

type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(gdb *gorm.DB) *GormLedger {
	return &GormLedger{db: gdb}
}

func (l *GormLedger) Record(ctx context.Context, store string, o model.Order) (model.LogEntry, error) {
	entry := model.LogEntry{
		Number:   o.Number,
		Customer: o.Customer,
		Date:     o.Date,
		Items:    o.Items,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.LedgerOrder
		err := tx.Where("store = ? AND order_number = ?", store, o.Number).Take(&existing).Error
		switch {
		case err == nil:
			// zamówienie już było – nie jest nowe
			entry.IsNew = false
			return tx.Model(&existing).Update("is_new", false).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := db.LedgerOrder{
				Store:        store,
				OrderNumber:  o.Number,
				CustomerName: o.Customer,
				OrderDate:    o.Date,
				IsNew:        true,
				Items:        make([]db.LedgerItem, 0, len(o.Items)),
			}
			for _, it := range o.Items {
				row.Items = append(row.Items, db.LedgerItem{SKU: it.SKU, Quantity: it.Quantity})
			}
			entry.IsNew = true
			return tx.Create(&row).Error
		default:
			return err
		}
	})
	if err != nil {
		return model.LogEntry{}, fmt.Errorf("record order %s/%s: %w", store, o.Number, err)
	}
	return entry, nil
}

func (l *GormLedger) NewItemTotals(ctx context.Context, store string) ([]model.SKUTotal, error) {
	var rows []struct {
		SKU      string `gorm:"column:sku"`
		Quantity int    `gorm:"column:quantity"`
	}
	err := l.db.WithContext(ctx).
		Table("ledger_items AS i").
		Select("i.sku AS sku, SUM(i.quantity) AS quantity").
		Joins("JOIN ledger_orders AS o ON o.id = i.order_id").
		Where("o.store = ? AND o.is_new = ?", store, true).
		Group("i.sku").
		Order("i.sku").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("new item totals %s: %w", store, err)
	}

	out := make([]model.SKUTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SKUTotal{SKU: r.SKU, Quantity: r.Quantity})
	}
	return out, nil
}

func (l *GormLedger) MultiOrderCustomers(ctx context.Context, store string) ([]model.CustomerOrders, error) {
	var rows []struct {
		CustomerName string
		OrderNumber  string
	}

	err := l.withTempTable(ctx, tmpMultiOrder,
		"customer_name VARCHAR(100) PRIMARY KEY, order_count INT",
		func(conn *gorm.DB) error {
			if err := conn.Exec(`
				INSERT INTO `+tmpMultiOrder+` (customer_name, order_count)
				SELECT customer_name, COUNT(*)
				FROM ledger_orders
				WHERE store = ? AND is_new = ?
				GROUP BY customer_name
				HAVING COUNT(*) > 1`, store, true).Error; err != nil {
				return err
			}
			return conn.Raw(`
				SELECT o.customer_name, o.order_number
				FROM ledger_orders AS o
				JOIN `+tmpMultiOrder+` AS m ON m.customer_name = o.customer_name
				WHERE o.store = ? AND o.is_new = ?
				ORDER BY o.id`, store, true).Scan(&rows).Error
		})
	if err != nil {
		return nil, fmt.Errorf("multi order customers %s: %w", store, err)
	}

	// grupowanie z zachowaniem kolejności z bazy
	var out []model.CustomerOrders
	idx := map[string]int{}
	for _, r := range rows {
		i, ok := idx[r.CustomerName]
		if !ok {
			i = len(out)
			idx[r.CustomerName] = i
			out = append(out, model.CustomerOrders{Customer: r.CustomerName})
		}
		out[i].Numbers = append(out[i].Numbers, r.OrderNumber)
	}
	return out, nil
}

func (l *GormLedger) MultiQuantityItems(ctx context.Context, store string) ([]model.QuantityRow, error) {
	var rows []struct {
		OrderNumber  string
		CustomerName string
		SKU          string `gorm:"column:sku"`
		Quantity     int
	}

	err := l.withTempTable(ctx, tmpMultiQty,
		"item_id INT, order_number VARCHAR(100), customer_name VARCHAR(100), sku VARCHAR(255), quantity INT",
		func(conn *gorm.DB) error {
			if err := conn.Exec(`
				INSERT INTO `+tmpMultiQty+` (item_id, order_number, customer_name, sku, quantity)
				SELECT i.id, o.order_number, o.customer_name, i.sku, i.quantity
				FROM ledger_items AS i
				JOIN ledger_orders AS o ON o.id = i.order_id
				WHERE o.store = ? AND o.is_new = ? AND i.quantity > 1`, store, true).Error; err != nil {
				return err
			}
			return conn.Raw(`
				SELECT order_number, customer_name, sku, quantity
				FROM ` + tmpMultiQty + `
				ORDER BY item_id`).Scan(&rows).Error
		})
	if err != nil {
		return nil, fmt.Errorf("multi quantity items %s: %w", store, err)
	}

	out := make([]model.QuantityRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.QuantityRow{
			Number:   r.OrderNumber,
			Customer: r.CustomerName,
			SKU:      r.SKU,
			Quantity: r.Quantity,
		})
	}
	return out, nil
}

// withTempTable – tabela tymczasowa na przypiętym połączeniu, DROP zawsze (także po błędzie)
func (l *GormLedger) withTempTable(ctx context.Context, name, columns string, fn func(conn *gorm.DB) error) error {
	drop := l.dropTempSQL(name)
	return l.db.WithContext(ctx).Connection(func(conn *gorm.DB) (err error) {
		if err := conn.Exec(drop).Error; err != nil {
			return err
		}
		if err := conn.Exec("CREATE TEMPORARY TABLE " + name + " (" + columns + ")").Error; err != nil {
			return err
		}
		defer func() {
			// bez anulowanego ctx – tabela nie może przeżyć raportu
			derr := conn.WithContext(context.WithoutCancel(ctx)).Exec(drop).Error
			if err == nil && derr != nil {
				err = derr
			}
		}()
		return fn(conn)
	})
}

// dropTempSQL – DROP, który nie dosięgnie stałej tabeli o tej samej nazwie
func (l *GormLedger) dropTempSQL(name string) string {
	switch l.db.Dialector.Name() {
	case "mysql":
		return "DROP TEMPORARY TABLE IF EXISTS " + name
	case "postgres":
		return "DROP TABLE IF EXISTS pg_temp." + name
	default: // sqlite
		return "DROP TABLE IF EXISTS temp." + name
	}
}

func (l *GormLedger) ConsumeNew(ctx context.Context, store string) (int64, error) {
	res := l.db.WithContext(ctx).
		Model(&db.LedgerOrder{}).
		Where("store = ? AND is_new = ?", store, true).
		Update("is_new", false)
	if res.Error != nil {
		return 0, fmt.Errorf("consume new %s: %w", store, res.Error)
	}
	return res.RowsAffected, nil
}

func (l *GormLedger) Ping(ctx context.Context) error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return nil
}
