// internal/config/config.go
package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bartek5186/ss2pick/internal/integrations/shipstation"
	"github.com/bartek5186/ss2pick/internal/model"
)

// Ustawienia bazy (ledger zamówień)
type DBConfig struct {
	Driver   string `json:"driver"`    // mysql | postgres | sqlite | sqlite-pure
	DSN      string `json:"dsn"`       // dla sqlite: ścieżka pliku (pusta = <appDir>/ss2pick.db)
	LogLevel string `json:"log_level"` // silent | error | warn | info
}

// Główny config aplikacji
type Config struct {
	Source             string                     `json:"source"`       // nazwa źródła zamówień, np. "shipstation"
	Integrations       map[string]json.RawMessage `json:"integrations"` // nazwa -> surowy JSON integracji
	Stores             []model.Store              `json:"stores"`
	Database           DBConfig                   `json:"database"`
	OutputDir          string                     `json:"output_dir"`
	RefreshWaitSeconds int                        `json:"refresh_wait_seconds"`
	SKURemap           map[string]string          `json:"sku_remap,omitempty"` // przestarzały SKU -> aktualny
}

var (
	ErrNoStores       = errors.New("brak sklepów w configu")
	ErrBadStoreName   = errors.New("niepoprawna nazwa sklepu")
	ErrDuplicateStore = errors.New("zdublowany sklep")
	ErrUnknownDriver  = errors.New("nieznany sterownik bazy")
)

var reStoreName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func LoadOrCreate(path string) (*Config, bool, error) {
	// upewnij się, że katalog istnieje
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("błąd zapisu domyślnego configa: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("błąd otwierania configa: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("błąd parsowania configa: %w", err)
	}
	if cfg.Integrations == nil {
		cfg.Integrations = map[string]json.RawMessage{}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite-pure"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, false, nil
}

// Default – config tworzony przy pierwszym uruchomieniu
func Default() *Config {
	ss := shipstation.Config{
		BaseURL:           shipstation.DefaultBaseURL,
		APIKey:            "key",
		APISecret:         "secret",
		PageSize:          500,
		RequestsPerMinute: 40,
		TimeoutSeconds:    30,
	}
	rawSS, _ := json.Marshal(ss)
	rawFile, _ := json.Marshal(map[string]string{"dir": "./orders_in"})

	return &Config{
		Source: "shipstation",
		Integrations: map[string]json.RawMessage{
			"shipstation": rawSS,
			"jsonfile":    rawFile,
		},
		Stores: []model.Store{
			{Name: "amazon", ID: "0"},
			{Name: "ebay", ID: "0"},
			{Name: "etsy", ID: "0"},
			{Name: "website_one", ID: "0"},
			{Name: "website_two", ID: "0"},
			{Name: "website_three", ID: "0"},
		},
		Database: DBConfig{
			Driver:   "sqlite-pure",
			LogLevel: "warn",
		},
		OutputDir:          ".",
		RefreshWaitSeconds: 60, // czas na zaimportowanie zamówień po refreshu sklepów
	}
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// Validate sprawdza to, co musi się zgadzać zanim dotkniemy bazy czy API
func (c *Config) Validate() error {
	if len(c.Stores) == 0 {
		return ErrNoStores
	}
	seen := make(map[string]struct{}, len(c.Stores))
	for _, s := range c.Stores {
		if !reStoreName.MatchString(s.Name) {
			return fmt.Errorf("%w: %q", ErrBadStoreName, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateStore, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite", "sqlite-pure":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.RefreshWaitSeconds < 0 {
		return fmt.Errorf("refresh_wait_seconds < 0 (%d)", c.RefreshWaitSeconds)
	}
	return nil
}

// Helper do odczytu konkretnej integracji do struktury docelowej
func (c *Config) UnmarshalIntegration(name string, v any) error {
	raw, ok := c.Integrations[name]
	if !ok {
		return fmt.Errorf("brak integracji %q w configu", name)
	}
	return json.Unmarshal(raw, v)
}

// Store zwraca sklep po nazwie
func (c *Config) Store(name string) (model.Store, bool) {
	for _, s := range c.Stores {
		if s.Name == name {
			return s, true
		}
	}
	return model.Store{}, false
}
