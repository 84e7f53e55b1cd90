package sku

import (
	"testing"

	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name     string
		sku      string
		wantKey  string
		wantSize string
	}{
		{name: "prem style", sku: "PREM-823-MED", wantKey: "PREM-823", wantSize: "MED"},
		{name: "prem NEW suffix", sku: "PREM-150NEW-XL", wantKey: "PREM-150", wantSize: "XL"},
		{name: "prem P suffix", sku: "PREM-301P-5XL", wantKey: "PREM-301", wantSize: "5XL"},
		{name: "prem color", sku: "PREM-812-RED-MED", wantKey: "PREM-812-RED", wantSize: "MED"},
		{name: "prem short sleeve", sku: "PREM-SS-153-LRG", wantKey: "PREM-SS-153", wantSize: "LRG"},
		{name: "jeans", sku: "PremJeans-BLK-32", wantKey: "PremJeans-BLK", wantSize: "32"},
		{name: "jeans long brand", sku: "PremiereJeans-BLK-32", wantKey: "PremJeans-BLK", wantSize: "32"},
		{name: "tee", sku: "PremTee-524-XL", wantKey: "524-PremTee", wantSize: "XL"},
		{name: "tee XXL", sku: "PremTee-524-XXL", wantKey: "524-PremTee", wantSize: "2XL"},
		{name: "long sleeve tee", sku: "PremiereLSTee-002-SML", wantKey: "002-PremiereLSTee", wantSize: "SML"},
		{name: "tee color swaps order", sku: "PremTee-NAVY-524-XXL", wantKey: "PremTee-524-NAVY", wantSize: "2XL"},
		{name: "womens tee", sku: "PremiereLSTee-WOM-002-SML", wantKey: "PremiereLSTee-002-WOM", wantSize: "SML"},
		{name: "other brand", sku: "WIDGET-1", wantKey: "WIDGET-1"},
		{name: "no dashes", sku: "Gift card", wantKey: "Gift card"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := n.Normalize(tt.sku, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, res.Key)
			assert.Equal(t, tt.wantSize, res.Size)
			assert.Equal(t, 3, res.Quantity)
			assert.Equal(t, tt.wantSize != "", res.Sized())
		})
	}
}

func TestNormalizeMalformedFallsBack(t *testing.T) {
	n := NewNormalizer(nil)

	for _, raw := range []string{
		"PREM-150",
		"PREM-1-2-3-4",
		"PremJeans-BLK",
		"PremiereJeans-BLK-32-L",
		"PremTee-524",
		"PREM--XL",
		"PremTee-524-",
	} {
		t.Run(raw, func(t *testing.T) {
			res, err := n.Normalize(raw, 2)
			assert.ErrorIs(t, err, ErrMalformedSKU)
			assert.Equal(t, Result{Key: raw, Quantity: 2}, res)
			assert.False(t, res.Sized())
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := NewNormalizer(nil)
	for _, raw := range []string{"PREM-100-MED", "PREM-150NEW-XL", "PREM-999P-2XL", "PREM-abc-LRG"} {
		first, err := n.Normalize(raw, 1)
		require.NoError(t, err)
		second, err := n.Normalize(raw, 1)
		require.NoError(t, err)
		assert.Equal(t, first.Key, second.Key)
	}
}

func TestStyleVariantsGroupTogether(t *testing.T) {
	n := NewNormalizer(nil)
	for _, style := range []string{"150", "150NEW", "150P"} {
		res, err := n.Normalize("PREM-"+style+"-XL", 1)
		require.NoError(t, err)
		assert.Equal(t, "PREM-150", res.Key, style)
	}
}

func TestNormalizeRemappedSKU(t *testing.T) {
	n := NewNormalizer(map[string]string{"PREM-LS-100-MED": "PREM-100-MED"})

	res, err := n.Normalize("PREM-LS-100-MED", 2)
	require.NoError(t, err)
	assert.Equal(t, Result{Key: "PREM-100", Size: "MED", Quantity: 2}, res)
}

func TestBuiltInRemapIsEmpty(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Empty(t, n.remap)
	assert.Equal(t, "PREM-LS-100-MED", n.Canonical("PREM-LS-100-MED", ""))
}

func TestCanonical(t *testing.T) {
	n := NewNormalizer(map[string]string{"OLD-1": "NEW-1", "PREM-LS-100-MED": "PREM-101-MED"})

	assert.Equal(t, "NEW-1", n.Canonical("OLD-1", "whatever"))
	assert.Equal(t, "PREM-101-MED", n.Canonical("PREM-LS-100-MED", ""))
	assert.Equal(t, "Blue mug 300ml", n.Canonical("", "Blue mug 300ml"))
	assert.Equal(t, "PREM-100-SML", n.Canonical("PREM-100-SML", "ignored"))
}

func TestFold(t *testing.T) {
	n := NewNormalizer(nil)
	var malformed []string

	g := Fold([]model.SKUTotal{
		{SKU: "PREM-150-XL", Quantity: 1},
		{SKU: "PREM-150NEW-MED", Quantity: 2},
		{SKU: "PREM-150", Quantity: 1},
		{SKU: "PremJeans-BLK-32", Quantity: 1},
		{SKU: "PremiereJeans-BLK-34", Quantity: 4},
		{SKU: "WIDGET-1", Quantity: 3},
	}, n, func(sku string, err error) {
		malformed = append(malformed, sku)
	})

	assert.Equal(t, []string{"PREM-150"}, malformed)
	assert.Equal(t, []Entry{{"XL", 1}, {"MED", 2}}, g.Sized["PREM-150"])
	assert.Equal(t, []Entry{{"32", 1}, {"34", 4}}, g.Sized["PremJeans-BLK"])
	assert.Equal(t, 1, g.Loose["PREM-150"])
	assert.Equal(t, 3, g.Loose["WIDGET-1"])
	assert.Equal(t, 4, g.Len())
}

func TestFoldSumsRepeatedLooseKeys(t *testing.T) {
	n := NewNormalizer(map[string]string{"PREM-7": "PREM-77"})
	g := Fold([]model.SKUTotal{
		{SKU: "PREM-7", Quantity: 2},
		{SKU: "PREM-77", Quantity: 3},
	}, n, nil)

	assert.Equal(t, map[string]int{"PREM-77": 5}, g.Loose)
}
