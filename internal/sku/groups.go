// internal/sku/groups.go
package sku

import "github.com/bartek5186/ss2pick/internal/model"

type Entry struct {
	Size     string
	Quantity int
}

// Groups – akumulator pick listy.
// Sized: klucz -> rozmiary w kolejności dodania, Loose: klucz -> suma ilości.
type Groups struct {
	Sized map[string][]Entry
	Loose map[string]int
}

func NewGroups() Groups {
	return Groups{
		Sized: map[string][]Entry{},
		Loose: map[string]int{},
	}
}

func (g Groups) Add(r Result) Groups {
	if r.Sized() {
		g.Sized[r.Key] = append(g.Sized[r.Key], Entry{Size: r.Size, Quantity: r.Quantity})
		return g
	}
	g.Loose[r.Key] += r.Quantity
	return g
}

func (g Groups) Len() int { return len(g.Sized) + len(g.Loose) }

// Fold przepuszcza sumy per SKU przez normalizer. onMalformed dostaje SKU,
// które wpadły do pozycji bez rozmiaru przez błąd parsowania (może być nil).
func Fold(totals []model.SKUTotal, n *Normalizer, onMalformed func(sku string, err error)) Groups {
	g := NewGroups()
	for _, t := range totals {
		res, err := n.Normalize(t.SKU, t.Quantity)
		if err != nil && onMalformed != nil {
			onMalformed(t.SKU, err)
		}
		g = g.Add(res)
	}
	return g
}
