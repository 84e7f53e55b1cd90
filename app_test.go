package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	conf "github.com/bartek5186/ss2pick/internal/config"
	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/bartek5186/ss2pick/internal/report"
	"github.com/bartek5186/ss2pick/internal/syncer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersJSON = `{"orders":[
  {"orderNumber":"7002","orderDate":"2024-05-07T09:30:00.0000000","billTo":{"name":"Anna Nowak"},
   "items":[{"sku":"PREM-100-MED","name":"Shirt","quantity":2},{"sku":"PREM-LS-100-MED","name":"Shirt","quantity":1}]},
  {"orderNumber":"7001","orderDate":"2024-05-06T09:30:00.0000000","billTo":{"name":"Anna Nowak"},
   "items":[{"sku":"PremJeans-BLK-34","name":"Jeans","quantity":1}]}
],"total":2,"page":1,"pages":1}`

func writeTestConfig(t *testing.T, mutate func(c *conf.Config)) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	in := filepath.Join(dir, "in")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "5.json"), []byte(ordersJSON), 0o644))

	cfg := conf.Default()
	cfg.Source = "jsonfile"
	raw, err := json.Marshal(map[string]string{"dir": in})
	require.NoError(t, err)
	cfg.Integrations["jsonfile"] = raw
	cfg.Stores = []model.Store{{Name: "amazon", ID: "5"}}
	cfg.OutputDir = "out"
	cfg.RefreshWaitSeconds = 0
	cfg.SKURemap = map[string]string{"PREM-LS-100-MED": "PREM-100-MED"}
	if mutate != nil {
		mutate(cfg)
	}

	cfgPath = filepath.Join(dir, "config.json")
	require.NoError(t, conf.Save(cfgPath, cfg))
	return dir, cfgPath
}

func TestAppRunsEndToEnd(t *testing.T) {
	dir, cfgPath := writeTestConfig(t, nil)

	a, err := newApp(zerolog.Nop(), dir, cfgPath)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, filepath.Join(dir, "out"), a.cfg.OutputDir)
	assert.FileExists(t, filepath.Join(dir, "ss2pick.db"))

	s, err := a.newSyncer()
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), syncer.Options{}))

	b, err := os.ReadFile(report.PickListPath(a.cfg.OutputDir, "amazon"))
	require.NoError(t, err)
	pick := string(b)
	// PREM-LS-100-MED przemapowany z sku_remap na PREM-100-MED
	assert.True(t, strings.HasPrefix(pick, "PREM-100 -> MED (3)\nPremJeans-BLK -> 34\n\n"), pick)
	assert.Contains(t, pick, "Anna Nowak - 2 Orders:\n7002\n7001\n")
	assert.Contains(t, pick, "7002 - Anna Nowak - PREM-100-MED (2)")

	// drugi przebieg: te same zamówienia nie są już nowe
	require.NoError(t, s.Run(context.Background(), syncer.Options{}))
	b, err = os.ReadFile(report.PickListPath(a.cfg.OutputDir, "amazon"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "\n"+report.HeaderMultiOrder), string(b))

	b, err = os.ReadFile(report.LogPath(a.cfg.OutputDir, "amazon"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "=== NOT A NEW ORDER ==="))
}

func TestAppRejectsInvalidConfig(t *testing.T) {
	dir, cfgPath := writeTestConfig(t, func(c *conf.Config) {
		c.Stores = append(c.Stores, model.Store{Name: "amazon", ID: "6"})
	})
	_, err := newApp(zerolog.Nop(), dir, cfgPath)
	assert.ErrorIs(t, err, conf.ErrDuplicateStore)
}

func TestAppUnknownSource(t *testing.T) {
	dir, cfgPath := writeTestConfig(t, func(c *conf.Config) { c.Source = "magento" })

	a, err := newApp(zerolog.Nop(), dir, cfgPath)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.newSyncer()
	assert.ErrorContains(t, err, "magento")
	assert.ErrorContains(t, err, "shipstation")
}
