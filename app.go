package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	conf "github.com/bartek5186/ss2pick/internal/config"
	"github.com/bartek5186/ss2pick/internal/db"
	"github.com/bartek5186/ss2pick/internal/integrations"
	_ "github.com/bartek5186/ss2pick/internal/integrations/jsonfile"
	_ "github.com/bartek5186/ss2pick/internal/integrations/shipstation" // rejestracja
	"github.com/bartek5186/ss2pick/internal/ledger"
	"github.com/bartek5186/ss2pick/internal/syncer"
	"github.com/rs/zerolog"
)

// wersję możesz nadpisać przez: -ldflags "-X 'main.ver=1.0.1'"
var ver = "1.0.0"

// app – wspólny start dla CLI i traya
type app struct {
	log     zerolog.Logger
	dir     string
	cfgPath string
	cfg     *conf.Config
	dbh     *db.Handle
}

func newApp(log zerolog.Logger, dir, cfgPath string) (*app, error) {
	a := &app{log: log, dir: dir, cfgPath: cfgPath}
	if err := a.loadConfig(); err != nil {
		return nil, err
	}

	dbh, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN, dir, log, a.cfg.Database.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("DB open: %w", err)
	}
	if err := dbh.Migrate(); err != nil {
		dbh.Close()
		return nil, fmt.Errorf("DB migrate: %w", err)
	}
	log.Info().Str("driver", dbh.Driver).Str("db", dbh.Path).Msg("DB ready")
	a.dbh = dbh
	return a, nil
}

// loadConfig – czyta config.json (tworzy domyślny przy pierwszym uruchomieniu)
func (a *app) loadConfig() error {
	cfg, firstRun, err := conf.LoadOrCreate(a.cfgPath)
	if err != nil {
		return err
	}
	if firstRun {
		a.log.Info().Msgf("Utworzono domyślną konfigurację: %s", a.cfgPath)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", a.cfgPath, err)
	}
	// względny katalog wyjściowy liczymy od pliku configa
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(a.cfgPath), cfg.OutputDir)
	}
	a.cfg = cfg
	return nil
}

// newSyncer – źródło zamówień wg cfg.Source + ledger na otwartej bazie
func (a *app) newSyncer() (*syncer.Syncer, error) {
	f, ok := integrations.Get(a.cfg.Source)
	if !ok {
		return nil, fmt.Errorf("nieznane źródło zamówień %q (dostępne: %v)", a.cfg.Source, integrations.Names())
	}
	src, err := f(a.log.With().Str("integration", a.cfg.Source).Logger(), a.cfg.Integrations[a.cfg.Source])
	if err != nil {
		return nil, fmt.Errorf("integracja %s: %w", a.cfg.Source, err)
	}
	return syncer.New(a.log, a.cfg, src, ledger.NewGormLedger(a.dbh.DB)), nil
}

func (a *app) Close() {
	if a.dbh != nil {
		_ = a.dbh.Close()
	}
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}

// przenośne otwieranie plików/katalogów w domyślnej aplikacji
func openInExplorer(path string) {
	switch runtime.GOOS {
	case "windows":
		// "start" musi być uruchomiony przez cmd /C, z pustym tytułem okna ""
		_ = exec.Command("cmd", "/C", "start", "", path).Start()
	case "darwin":
		_ = exec.Command("open", path).Start()
	default:
		_ = exec.Command("xdg-open", path).Start()
	}
}
