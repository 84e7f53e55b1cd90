package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bartek5186/ss2pick/internal/integrations/shipstation"
	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, firstRun, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, firstRun)
	assert.Equal(t, "shipstation", cfg.Source)
	assert.Len(t, cfg.Stores, 6)
	assert.Equal(t, 60, cfg.RefreshWaitSeconds)
	require.NoError(t, cfg.Validate())

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, firstRun, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, firstRun)
	assert.Equal(t, cfg.Stores, again.Stores)

	var ss shipstation.Config
	require.NoError(t, again.UnmarshalIntegration("shipstation", &ss))
	assert.Equal(t, shipstation.DefaultBaseURL, ss.BaseURL)
	assert.Equal(t, 500, ss.PageSize)
}

func TestLoadOrCreateFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"source":"jsonfile","stores":[{"name":"etsy","id":"42"}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, firstRun, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, firstRun)
	assert.Equal(t, "sqlite-pure", cfg.Database.Driver)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.NotNil(t, cfg.Integrations)

	s, ok := cfg.Store("etsy")
	assert.True(t, ok)
	assert.Equal(t, "42", s.ID)
	_, ok = cfg.Store("amazon")
	assert.False(t, ok)
}

func TestLoadOrCreateRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, _, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Default()
		c.Stores = []model.Store{{Name: "amazon", ID: "1"}}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "no stores", mutate: func(c *Config) { c.Stores = nil }, wantErr: ErrNoStores},
		{
			name:    "store name with spaces",
			mutate:  func(c *Config) { c.Stores[0].Name = "my store" },
			wantErr: ErrBadStoreName,
		},
		{
			name: "duplicate store",
			mutate: func(c *Config) {
				c.Stores = append(c.Stores, model.Store{Name: "amazon", ID: "2"})
			},
			wantErr: ErrDuplicateStore,
		},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("negative wait", func(t *testing.T) {
		c := base()
		c.RefreshWaitSeconds = -1
		assert.Error(t, c.Validate())
	})
}

func TestUnmarshalIntegrationMissing(t *testing.T) {
	c := &Config{Integrations: map[string]json.RawMessage{}}
	var v map[string]any
	assert.Error(t, c.UnmarshalIntegration("shipstation", &v))
}
