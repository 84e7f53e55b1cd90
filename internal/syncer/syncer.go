// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	conf "github.com/bartek5186/ss2pick/internal/config"
	"github.com/bartek5186/ss2pick/internal/integrations"
	"github.com/bartek5186/ss2pick/internal/ledger"
	"github.com/bartek5186/ss2pick/internal/model"
	"github.com/bartek5186/ss2pick/internal/report"
	"github.com/bartek5186/ss2pick/internal/sku"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrStoresFailed – część sklepów przerwana błędem lokalnym, reszta przeszła
	ErrStoresFailed   = errors.New("some stores failed")
	ErrAlreadyRunning = errors.New("run already in progress")
	ErrUnknownStore   = errors.New("unknown store")
	// ErrOrdersSkipped – Record nieudany przy działającej bazie, zamówienia brak w plikach
	ErrOrdersSkipped = errors.New("orders skipped")
)

type Options struct {
	SkipRefresh bool     // bez refreshu sklepów i czekania
	Stores      []string // puste = wszystkie z configu
}

type Syncer struct {
	log    zerolog.Logger
	cfg    *conf.Config
	src    integrations.Source
	ledger ledger.Ledger
	norm   *sku.Normalizer
	now    func() time.Time

	mu      sync.Mutex
	running bool
}

func New(log zerolog.Logger, cfg *conf.Config, src integrations.Source, l ledger.Ledger) *Syncer {
	return &Syncer{
		log:    log,
		cfg:    cfg,
		src:    src,
		ledger: l,
		norm:   sku.NewNormalizer(cfg.SKURemap),
		now:    time.Now,
	}
}

// IsRunning – tray blokuje menu, gdy przebieg trwa
func (s *Syncer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run – jeden pełny przebieg: refresh, potem sklep po sklepie aż do plików.
// Błąd źródła albo ledgera przerywa całość; błąd lokalny tylko dany sklep.
func (s *Syncer) Run(ctx context.Context, opts Options) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log := s.log.With().Str("run", uuid.NewString()).Logger()

	stores, err := s.selectStores(opts.Stores)
	if err != nil {
		return err
	}

	if err := s.ledger.Ping(ctx); err != nil {
		return wrapLedger(err)
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	if !opts.SkipRefresh {
		if err := s.refresh(ctx, log, stores); err != nil {
			return err
		}
	}

	start := s.now()
	var failed []error
	for _, st := range stores {
		slog := log.With().Str("store", st.Name).Logger()
		if err := s.runStore(ctx, slog, st); err != nil {
			if fatal(err) {
				slog.Error().Err(err).Msg("run aborted")
				return err
			}
			slog.Error().Err(err).Msg("store skipped")
			failed = append(failed, fmt.Errorf("%s: %w", st.Name, err))
		}
	}

	log.Info().
		Int("stores", len(stores)).
		Int("failed", len(failed)).
		Dur("took", s.now().Sub(start)).
		Msg("run finished")

	if len(failed) > 0 {
		return fmt.Errorf("%w: %w", ErrStoresFailed, errors.Join(failed...))
	}
	return nil
}

func (s *Syncer) selectStores(names []string) ([]model.Store, error) {
	if len(names) == 0 {
		return s.cfg.Stores, nil
	}
	out := make([]model.Store, 0, len(names))
	for _, n := range names {
		st, ok := s.cfg.Store(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStore, n)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *Syncer) refresh(ctx context.Context, log zerolog.Logger, stores []model.Store) error {
	ids := make([]string, 0, len(stores))
	seen := map[string]bool{}
	for _, st := range stores {
		if !seen[st.ID] {
			seen[st.ID] = true
			ids = append(ids, st.ID)
		}
	}
	if err := s.src.Refresh(ctx, ids); err != nil {
		return wrapSource(err)
	}

	wait := time.Duration(s.cfg.RefreshWaitSeconds) * time.Second
	if wait <= 0 {
		return nil
	}
	log.Info().Dur("wait", wait).Msg("waiting for store import")
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Syncer) runStore(ctx context.Context, log zerolog.Logger, st model.Store) error {
	orders, err := s.src.AwaitingShipment(ctx, st.ID)
	if err != nil {
		return wrapSource(err)
	}

	entries := make([]model.LogEntry, 0, len(orders))
	newCount := 0
	var skipped []string
	// strony przesuwają się, gdy w trakcie dojdzie nowe zamówienie –
	// drugi Record tego samego numeru zdjąłby is_new jeszcze w tym przebiegu
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if seen[o.Number] {
			log.Warn().Str("order", o.Number).Msg("duplicate order in fetch, ignored")
			continue
		}
		seen[o.Number] = true

		items := make([]model.Item, len(o.Items))
		for i, it := range o.Items {
			it.SKU = s.norm.Canonical(it.SKU, it.Name)
			items[i] = it
		}
		o.Items = items

		e, err := s.ledger.Record(ctx, st.Name, o)
		if err != nil {
			// pojedyncze zamówienie pomijamy, chyba że padła cała baza
			log.Error().Err(err).Str("order", o.Number).Msg("record failed")
			if perr := s.ledger.Ping(ctx); perr != nil {
				return wrapLedger(perr)
			}
			skipped = append(skipped, o.Number)
			continue
		}
		if e.IsNew {
			newCount++
		}
		entries = append(entries, e)
	}
	log.Info().Int("orders", len(orders)).Int("new", newCount).Msg("orders recorded")

	totals, err := s.ledger.NewItemTotals(ctx, st.Name)
	if err != nil {
		return s.ledgerErr(ctx, err)
	}
	groups := sku.Fold(totals, s.norm, func(raw string, err error) {
		log.Warn().Err(err).Str("sku", raw).Msg("malformed sku, listed ungrouped")
	})

	pickPath := report.PickListPath(s.cfg.OutputDir, st.Name)
	logPath := report.LogPath(s.cfg.OutputDir, st.Name)
	writeLog := func() error {
		return writeFile(logPath, func(w io.Writer) error {
			return report.WriteOrderLog(w, st.Name, s.now(), entries)
		})
	}

	lines, err := report.PickList(groups)
	if err != nil {
		// stara lista z poprzedniego przebiegu nie może zostać na magazynie
		if rerr := os.Remove(pickPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Warn().Err(rerr).Str("file", pickPath).Msg("stale pick list not removed")
		}
		// log zostaje jako lista zamówień do ręcznej kompletacji; kohorta
		// jest zdejmowana jak po udanym przebiegu, inaczej zła pozycja
		// blokowałaby sklep w każdym kolejnym przebiegu
		if lerr := writeLog(); lerr != nil {
			log.Warn().Err(lerr).Str("file", logPath).Msg("order log not written")
		}
		if _, cerr := s.ledger.ConsumeNew(ctx, st.Name); cerr != nil {
			return errors.Join(err, s.ledgerErr(ctx, cerr))
		}
		return err
	}

	multiOrder, err := s.ledger.MultiOrderCustomers(ctx, st.Name)
	if err != nil {
		return s.ledgerErr(ctx, err)
	}
	multiQty, err := s.ledger.MultiQuantityItems(ctx, st.Name)
	if err != nil {
		return s.ledgerErr(ctx, err)
	}

	err = writeFile(pickPath, func(w io.Writer) error {
		if err := report.WritePickList(w, lines); err != nil {
			return err
		}
		if err := report.WriteMultiOrderCustomers(w, multiOrder); err != nil {
			return err
		}
		return report.WriteMultiQuantityItems(w, multiQty)
	})
	if err != nil {
		return err
	}

	if err := writeLog(); err != nil {
		return err
	}

	consumed, err := s.ledger.ConsumeNew(ctx, st.Name)
	if err != nil {
		return s.ledgerErr(ctx, err)
	}

	log.Info().
		Int("lines", len(lines)).
		Int64("consumed", consumed).
		Str("pick_list", pickPath).
		Msg("store done")

	if len(skipped) > 0 {
		return fmt.Errorf("%w: %v", ErrOrdersSkipped, skipped)
	}
	return nil
}

// ledgerErr – błąd zapytania: jeśli baza nie odpowiada, to błąd całego przebiegu
func (s *Syncer) ledgerErr(ctx context.Context, err error) error {
	if perr := s.ledger.Ping(ctx); perr != nil {
		return wrapLedger(perr)
	}
	return err
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func wrapLedger(err error) error {
	if errors.Is(err, ledger.ErrLedgerUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ledger.ErrLedgerUnavailable, err)
}

func wrapSource(err error) error {
	if errors.Is(err, integrations.ErrSourceUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", integrations.ErrSourceUnavailable, err)
}

func fatal(err error) bool {
	return errors.Is(err, ledger.ErrLedgerUnavailable) ||
		errors.Is(err, integrations.ErrSourceUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
