// Package report składa pliki tekstowe dla magazynu: pick listę,
// raporty kontrolne i log zamówień.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bartek5186/ss2pick/internal/sku"
)

// PickList renderuje grupy i sortuje linie bajtowo.
// Nieznany rozmiar w którejkolwiek grupie = błąd całej listy.
func PickList(g sku.Groups) ([]string, error) {
	lines := make([]string, 0, g.Len())

	for key, entries := range g.Sized {
		sorted := make([]sku.Entry, len(entries))
		copy(sorted, entries)
		if err := sku.SortEntries(sorted); err != nil {
			return nil, fmt.Errorf("grupa %s: %w", key, err)
		}
		lines = append(lines, SizedLine(key, sorted))
	}
	for key, q := range g.Loose {
		lines = append(lines, LooseLine(key, q))
	}

	sort.Strings(lines)
	return lines, nil
}

// SizedLine: "PREM-100 -> MED, LRG (2)"
func SizedLine(key string, entries []sku.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, withQuantity(e.Size, e.Quantity, " "))
	}
	return key + " -> " + strings.Join(parts, ", ")
}

// LooseLine: "WIDGET-1 ... (3)" albo samo "WIDGET-2"
func LooseLine(key string, quantity int) string {
	return withQuantity(key, quantity, " ... ")
}

func withQuantity(label string, q int, sep string) string {
	if q == 1 {
		return label
	}
	return label + sep + "(" + strconv.Itoa(q) + ")"
}

func WritePickList(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}
