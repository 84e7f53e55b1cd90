// internal/sku/normalizer.go
package sku

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSKU – marka rozpoznana, ale SKU nie pasuje do żadnego wzorca tej marki.
// Wynik i tak jest zwracany (pozycja bez grupowania), błąd służy tylko do logowania.
var ErrMalformedSKU = errors.New("malformed sku")

// przestarzałe SKU z dawnych aukcji -> aktualny SKU.
// Wbudowana tabela jest pusta, konkretne wpisy idą z configu (sku_remap).
var obsoleteSKUs = map[string]string{}

// Result – klucz grupy (styl/marka/kolor) i rozmiar.
// Size == "" oznacza pozycję bez rozmiaru: na pick liście liczy się sama ilość.
type Result struct {
	Key      string
	Size     string
	Quantity int
}

func (r Result) Sized() bool { return r.Size != "" }

type Normalizer struct {
	remap map[string]string
}

// NewNormalizer – wbudowana tabela przestarzałych SKU + wpisy z configu (config wygrywa)
func NewNormalizer(extra map[string]string) *Normalizer {
	m := make(map[string]string, len(obsoleteSKUs)+len(extra))
	for k, v := range obsoleteSKUs {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	return &Normalizer{remap: m}
}

// Canonical – SKU zapisywany w ledgerze: podmiana przestarzałego SKU,
// a gdy SKU jest pusty – opis pozycji.
func (n *Normalizer) Canonical(sku, name string) string {
	sku = n.replace(sku)
	if sku == "" {
		return name
	}
	return sku
}

func (n *Normalizer) replace(sku string) string {
	if v, ok := n.remap[sku]; ok {
		return v
	}
	return sku
}

// Normalize mapuje surowy SKU na klucz grupy i rozmiar.
// Nigdy nie panikuje; nieznana marka = pozycja bez rozmiaru pod pełnym SKU.
func (n *Normalizer) Normalize(raw string, quantity int) (Result, error) {
	sku := n.replace(raw)
	seg := strings.Split(sku, "-")
	fallback := Result{Key: sku, Quantity: quantity}

	knownBrand := false
	for _, r := range rules {
		if !r.matches(seg[0]) {
			continue
		}
		knownBrand = true
		if len(seg) != r.segments {
			continue
		}
		res, err := r.extract(seg)
		if err != nil {
			return fallback, fmt.Errorf("%w: %q: %v", ErrMalformedSKU, sku, err)
		}
		res.Quantity = quantity
		return res, nil
	}
	if knownBrand {
		return fallback, fmt.Errorf("%w: %q: %d segments", ErrMalformedSKU, sku, len(seg))
	}
	return fallback, nil
}
