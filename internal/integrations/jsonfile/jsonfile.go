// internal/integrations/jsonfile/jsonfile.go
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartek5186/ss2pick/internal/integrations"
	"github.com/bartek5186/ss2pick/internal/integrations/shipstation"
	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

type Config struct {
	Dir string `json:"dir"` // np. ~/ss2pick/orders_in
}

// Source czyta <dir>/<storeID>.json w formacie odpowiedzi ShipStation GET /orders.
// Tryb offline/dev – bez kluczy API.
type Source struct {
	log zerolog.Logger
	cfg Config
}

func New(log zerolog.Logger, cfg Config) *Source {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &Source{log: log, cfg: cfg}
}

func (s *Source) Name() string { return "jsonfile" }

// Refresh – nic do odświeżania, pliki podmienia użytkownik
func (s *Source) Refresh(ctx context.Context, storeIDs []string) error {
	return ctx.Err()
}

func (s *Source) AwaitingShipment(ctx context.Context, storeID string) ([]model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(expandHome(s.cfg.Dir), storeID+".json")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrSourceUnavailable, err)
	}
	defer f.Close()

	// eksporty z Excela/Windows bywają w cp1250
	r, err := charset.NewReader(f, "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", integrations.ErrSourceUnavailable, path, err)
	}
	orders, err := shipstation.DecodeOrders(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", integrations.ErrSourceUnavailable, path, err)
	}

	s.log.Debug().Str("file", path).Int("orders", len(orders)).Msg("orders loaded from file")
	return orders, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func factory(log zerolog.Logger, raw json.RawMessage) (integrations.Source, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return New(log, cfg), nil
}

func init() {
	integrations.Register("jsonfile", factory)
}
