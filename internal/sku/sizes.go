// internal/sku/sizes.go
package sku

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnrecognizedSize – rozmiar spoza tabeli. Pick lista z błędną kolejnością
// trafiłaby na magazyn, więc to twardy błąd dla sklepu.
var ErrUnrecognizedSize = errors.New("unrecognized size")

// koszule: SML..8XL, spodnie: 32..50 (klasa = dwa pierwsze znaki)
var sizeOrder = map[string]int{
	"SM": 1, "ME": 2, "LR": 3, "XL": 4,
	"2X": 5, "3X": 6, "4X": 7, "5X": 8, "6X": 9, "7X": 10, "8X": 11,
	"32": 12, "34": 13, "36": 14, "38": 15, "40": 16,
	"42": 17, "44": 18, "46": 19, "48": 20, "50": 21,
}

func SizeRank(label string) (int, error) {
	if len(label) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedSize, label)
	}
	r, ok := sizeOrder[label[:2]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedSize, label)
	}
	return r, nil
}

// SortEntries sortuje stabilnie po rozmiarze; przy nieznanym rozmiarze nic nie rusza
func SortEntries(entries []Entry) error {
	ranks := make(map[string]int, len(entries))
	for _, e := range entries {
		r, err := SizeRank(e.Size)
		if err != nil {
			return err
		}
		ranks[e.Size] = r
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return ranks[a.Size] - ranks[b.Size]
	})
	return nil
}
