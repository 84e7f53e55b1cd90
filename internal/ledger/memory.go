package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/bartek5186/ss2pick/internal/model"
)

// MemLedger – ledger w pamięci (testy, dry-run). Te same reguły co GormLedger,
// kolejność = kolejność wstawiania.
type MemLedger struct {
	mu     sync.Mutex
	stores map[string]*memStore

	// FailRecord / PingErr – wstrzykiwanie błędów w testach
	FailRecord func(store string, o model.Order) error
	PingErr    error
}

type memStore struct {
	orders []*memOrder
	byNum  map[string]*memOrder
}

type memOrder struct {
	number   string
	customer string
	isNew    bool
	items    []model.Item
}

func NewMemLedger() *MemLedger {
	return &MemLedger{stores: map[string]*memStore{}}
}

func (l *MemLedger) store(name string) *memStore {
	s, ok := l.stores[name]
	if !ok {
		s = &memStore{byNum: map[string]*memOrder{}}
		l.stores[name] = s
	}
	return s
}

func (l *MemLedger) Record(ctx context.Context, store string, o model.Order) (model.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.LogEntry{}, err
	}
	if l.FailRecord != nil {
		if err := l.FailRecord(store, o); err != nil {
			return model.LogEntry{}, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.LogEntry{Number: o.Number, Customer: o.Customer, Date: o.Date, Items: o.Items}
	s := l.store(store)
	if existing, ok := s.byNum[o.Number]; ok {
		existing.isNew = false
		return entry, nil
	}

	items := make([]model.Item, len(o.Items))
	copy(items, o.Items)
	mo := &memOrder{number: o.Number, customer: o.Customer, isNew: true, items: items}
	s.orders = append(s.orders, mo)
	s.byNum[o.Number] = mo
	entry.IsNew = true
	return entry, nil
}

func (l *MemLedger) NewItemTotals(ctx context.Context, store string) ([]model.SKUTotal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sums := map[string]int{}
	for _, o := range l.store(store).orders {
		if !o.isNew {
			continue
		}
		for _, it := range o.items {
			sums[it.SKU] += it.Quantity
		}
	}
	out := make([]model.SKUTotal, 0, len(sums))
	for sku, q := range sums {
		out = append(out, model.SKUTotal{SKU: sku, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (l *MemLedger) MultiOrderCustomers(ctx context.Context, store string) ([]model.CustomerOrders, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders := l.store(store).orders
	count := map[string]int{}
	for _, o := range orders {
		if o.isNew {
			count[o.customer]++
		}
	}

	var out []model.CustomerOrders
	idx := map[string]int{}
	for _, o := range orders {
		if !o.isNew || count[o.customer] < 2 {
			continue
		}
		i, ok := idx[o.customer]
		if !ok {
			i = len(out)
			idx[o.customer] = i
			out = append(out, model.CustomerOrders{Customer: o.customer})
		}
		out[i].Numbers = append(out[i].Numbers, o.number)
	}
	return out, nil
}

func (l *MemLedger) MultiQuantityItems(ctx context.Context, store string) ([]model.QuantityRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.QuantityRow
	for _, o := range l.store(store).orders {
		if !o.isNew {
			continue
		}
		for _, it := range o.items {
			if it.Quantity > 1 {
				out = append(out, model.QuantityRow{Number: o.number, Customer: o.customer, SKU: it.SKU, Quantity: it.Quantity})
			}
		}
	}
	return out, nil
}

func (l *MemLedger) ConsumeNew(ctx context.Context, store string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for _, o := range l.store(store).orders {
		if o.isNew {
			o.isNew = false
			n++
		}
	}
	return n, nil
}

func (l *MemLedger) Ping(ctx context.Context) error {
	return l.PingErr
}

// IsNew – stan flagi (testy)
func (l *MemLedger) IsNew(store, number string) (isNew, found bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.store(store).byNum[number]
	if !ok {
		return false, false
	}
	return o.isNew, true
}

// Len – liczba zamówień sklepu
func (l *MemLedger) Len(store string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.store(store).orders)
}
