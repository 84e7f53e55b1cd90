package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bartek5186/ss2pick/internal/integrations"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"orders":[
  {"orderNumber":"A-2","orderDate":"2024-03-02T10:00:00.0000000","billTo":{"name":"Anna"},
   "items":[{"sku":"PremJeans-BLK-32","name":"Jeans","quantity":1}]},
  {"orderNumber":"A-1","orderDate":"2024-03-01T10:00:00.0000000","billTo":{"name":"Jan"},
   "items":[{"sku":"","name":"Gift card","quantity":1}]}
],"total":2,"page":1,"pages":1}`

func TestAwaitingShipment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "17.json"), []byte(sample), 0o644))

	src := New(zerolog.Nop(), Config{Dir: dir})
	require.NoError(t, src.Refresh(context.Background(), []string{"17"}))

	orders, err := src.AwaitingShipment(context.Background(), "17")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "A-2", orders[0].Number)
	assert.Equal(t, "Anna", orders[0].Customer)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), orders[0].Date)
	assert.Equal(t, "PremJeans-BLK-32", orders[0].Items[0].SKU)
	assert.Equal(t, "Gift card", orders[1].Items[0].Name)
}

func TestAwaitingShipmentErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"orders":[`), 0o644))
	src := New(zerolog.Nop(), Config{Dir: dir})

	_, err := src.AwaitingShipment(context.Background(), "missing")
	assert.ErrorIs(t, err, integrations.ErrSourceUnavailable)

	_, err = src.AwaitingShipment(context.Background(), "bad")
	assert.ErrorIs(t, err, integrations.ErrSourceUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.AwaitingShipment(ctx, "bad")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "orders"), expandHome("~/orders"))
	assert.Equal(t, "/tmp/x", expandHome("/tmp/x"))
}

func TestRegistry(t *testing.T) {
	f, ok := integrations.Get("jsonfile")
	require.True(t, ok)
	src, err := f(zerolog.Nop(), json.RawMessage(`{"dir":"/data"}`))
	require.NoError(t, err)
	assert.Equal(t, "jsonfile", src.Name())
	assert.Equal(t, "/data", src.(*Source).cfg.Dir)

	assert.Contains(t, integrations.Names(), "jsonfile")
}
