//go:build !windows || dev

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bartek5186/ss2pick/internal/logs"
	"github.com/bartek5186/ss2pick/internal/syncer"
)

func main() {
	os.Exit(run())
}

func run() int {
	appDir := mustAppDataDir("ss2pick")

	cfgPath := flag.String("config", filepath.Join(appDir, "config.json"), "ścieżka do config.json")
	skipRefresh := flag.Bool("skip-refresh", false, "bez odświeżania sklepów w ShipStation")
	stores := flag.String("store", "", "tylko te sklepy (lista po przecinku)")
	flag.Parse()

	log := logs.New(filepath.Join(appDir, "app.log"), true)
	log.Info().Str("version", ver).Msg("ss2pick (CLI) uruchomiony")

	a, err := newApp(log, appDir, *cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("start nieudany")
		return 1
	}
	defer a.Close()

	s, err := a.newSyncer()
	if err != nil {
		log.Error().Err(err).Msg("start nieudany")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := syncer.Options{SkipRefresh: *skipRefresh}
	if *stores != "" {
		for _, n := range strings.Split(*stores, ",") {
			if n = strings.TrimSpace(n); n != "" {
				opts.Stores = append(opts.Stores, n)
			}
		}
	}

	err = s.Run(ctx, opts)
	switch {
	case err == nil:
		fmt.Println("Gotowe:", a.cfg.OutputDir)
		return 0
	case errors.Is(err, syncer.ErrStoresFailed):
		log.Warn().Err(err).Msg("część sklepów z błędem")
		return 2
	default:
		log.Error().Err(err).Msg("przebieg przerwany")
		return 1
	}
}
