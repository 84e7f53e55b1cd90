//go:build windows && !dev

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/bartek5186/ss2pick/internal/logs"
	"github.com/bartek5186/ss2pick/internal/syncer"
	"github.com/getlantern/systray"
)

func main() {
	// katalog danych aplikacji (logi, config, ledger sqlite)
	appDir := mustAppDataDir("ss2pick")
	logPath := filepath.Join(appDir, "app.log")
	log := logs.New(logPath, false)

	cfgPath := filepath.Join(appDir, "config.json")
	a, err := newApp(log, appDir, cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("start nieudany")
	}
	defer a.Close()

	// kontekst sterujący życiem procesu (CTRL+C / zamknięcie sesji)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(func() {
		systray.SetTitle("ss2pick")
		systray.SetTooltip(fmt.Sprintf("ss2pick %s", ver))

		mRun := systray.AddMenuItem("Generate pick lists", "Pobierz zamówienia i wygeneruj pliki")
		systray.AddSeparator()
		mOut := systray.AddMenuItem("Open output folder", "Katalog z listami")
		mLogs := systray.AddMenuItem("Open logs", "Pokaż plik log")
		mCfg := systray.AddMenuItem("Settings", "Otwórz config.json")
		systray.AddSeparator()
		mAbout := systray.AddMenuItem(fmt.Sprintf("About (%s)", ver), "")
		mQuit := systray.AddMenuItem("Quit", "Zamknij aplikację")

		done := make(chan error, 1)

		go func() {
			for {
				select {
				case <-mRun.ClickedCh:
					// config mógł się zmienić w Settings – czytamy przed każdym przebiegiem
					if err := a.loadConfig(); err != nil {
						log.Error().Err(err).Msg("Błąd configa")
						systray.SetTooltip(fmt.Sprintf("ss2pick %s – błąd configa", ver))
						continue
					}
					s, err := a.newSyncer()
					if err != nil {
						log.Error().Err(err).Msg("Błąd integracji")
						continue
					}
					mRun.Disable()
					systray.SetTooltip(fmt.Sprintf("ss2pick %s – generuję...", ver))
					go func() { done <- s.Run(ctx, syncer.Options{}) }()

				case err := <-done:
					mRun.Enable()
					switch {
					case err == nil:
						systray.SetTooltip(fmt.Sprintf("ss2pick %s – gotowe %s", ver, time.Now().Format("15:04")))
						openInExplorer(a.cfg.OutputDir)
					case errors.Is(err, syncer.ErrStoresFailed):
						log.Warn().Err(err).Msg("część sklepów z błędem")
						systray.SetTooltip(fmt.Sprintf("ss2pick %s – część sklepów z błędem", ver))
					default:
						log.Error().Err(err).Msg("przebieg przerwany")
						systray.SetTooltip(fmt.Sprintf("ss2pick %s – błąd", ver))
					}

				case <-mOut.ClickedCh:
					openInExplorer(a.cfg.OutputDir)

				case <-mLogs.ClickedCh:
					openInExplorer(logPath)

				case <-mCfg.ClickedCh:
					openInExplorer(cfgPath)

				case <-mAbout.ClickedCh:
					log.Info().Msgf("ss2pick %s | %s", ver, runtime.Version())

				case <-mQuit.ClickedCh:
					// łagodne zamykanie: przerwany przebieg nie zdejmie flag is_new
					cancel()
					systray.Quit()
					return
				}
			}
		}()
	}, func() {
		// onExit: daj chwilę loggerowi na flush
		time.Sleep(50 * time.Millisecond)
	})
}
