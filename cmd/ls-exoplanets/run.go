package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/config"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/metrics"
	"github.com/litescript/ls-exoplanets/internal/scene"
	"github.com/litescript/ls-exoplanets/internal/state"
	"github.com/litescript/ls-exoplanets/internal/store"
	"github.com/litescript/ls-exoplanets/internal/ui"
)

// app bundles the components shared by the headless and TUI modes.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	metrics  *metrics.Metrics
	client   *catalog.Client
	cache    *store.Store // nil when caching is disabled
	state    *state.Manager
	composer *scene.Composer
}

func run(ctx context.Context, cmd *cobra.Command, opts options, criteria catalog.Criteria) error {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	headless := opts.summary || opts.snapshotPath != ""
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use --summary or --snapshot-path")
	}

	logger, closeLog, err := setupLogging(cfg.Log, headless)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(cfg, logger, opts.seed)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Metrics.Addr != "" {
		stop := a.serveMetrics(cfg.Metrics.Addr)
		defer stop()
	}

	if headless {
		return a.runHeadless(ctx, os.Stdout, opts, criteria)
	}
	return a.runTUI(ctx)
}

// setupLogging sends logs to the configured file. Without one, headless
// runs log to stderr and the TUI discards logs so they cannot corrupt the
// screen.
func setupLogging(cfg config.LogConfig, headless bool) (*logging.Logger, func(), error) {
	level := logging.ParseLevel(cfg.Level)

	if cfg.File == "" {
		if headless {
			return logging.New(level), func() {}, nil
		}
		return logging.Discard(), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := logging.New(level)
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func newApp(cfg *config.Config, logger *logging.Logger, seed int64) (*app, error) {
	m := metrics.New()

	a := &app{
		cfg:     cfg,
		log:     logger,
		metrics: m,
		client: catalog.NewClient(
			catalog.WithBaseURL(cfg.API.BaseURL),
			catalog.WithTimeout(cfg.API.Timeout),
			catalog.WithFilterRate(cfg.API.FilterRate),
			catalog.WithMetrics(m),
		),
	}

	stateCfg := state.DefaultConfig()
	stateCfg.Metrics = m
	a.state = state.NewManager(stateCfg)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	glyphs := scene.NewRandomGlyphs(rand.New(rand.NewSource(seed)))
	a.composer = scene.NewComposer(cfg.Scene.Params(), glyphs)

	if cfg.Cache.Path != "" {
		cache, err := store.Open(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		a.cache = cache
	}
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("closing cache: %v", err)
		}
	}
}

// serveMetrics starts the Prometheus endpoint and returns a function that
// shuts it down.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.log.Info("serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// loadCatalog fetches the live catalog and refreshes the cache. When the
// fetch fails and a cached catalog exists, the cached one is returned.
func (a *app) loadCatalog(ctx context.Context) (catalog.FetchResult, state.Source) {
	a.log.Debug("fetching catalog from %s", a.client.BaseURL())
	res := a.client.FetchCatalog(ctx)

	if res.Error == nil {
		a.log.Info("fetched %d rows in %v (%d dropped)", len(res.Rows), res.Duration, res.Dropped)
		if a.cache != nil {
			if err := a.cache.SaveCatalog(ctx, res.Rows, res.FetchedAt); err != nil {
				a.log.Warn("updating cache: %v", err)
			}
		}
		return res, state.SourceLive
	}

	a.log.Error("fetch failed: %v", res.Error)
	if a.cache == nil {
		return res, state.SourceLive
	}

	rows, savedAt, err := a.cache.LoadCatalog(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoCatalog) {
			a.log.Warn("reading cache: %v", err)
		}
		return res, state.SourceLive
	}

	a.log.Warn("using cached catalog from %s", savedAt.Format(time.RFC3339))
	return catalog.FetchResult{Rows: rows, FetchedAt: savedAt}, state.SourceCache
}

// runHeadless loads the catalog once, applies the optional filter and
// writes the requested outputs.
func (a *app) runHeadless(ctx context.Context, w io.Writer, opts options, criteria catalog.Criteria) error {
	res, source := a.loadCatalog(ctx)
	if res.Error != nil {
		return res.Error
	}
	a.state.Update(res, source)

	if !criteria.IsEmpty() {
		seq := a.state.BeginFilter()
		names, err := a.client.Filter(ctx, criteria)
		if err != nil {
			return fmt.Errorf("filter: %w", err)
		}
		a.state.CompleteFilter(seq, names)
	}

	snap := a.state.Snapshot()

	if opts.snapshotPath != "" {
		export := scene.Export(a.composer.Compose(snap.Systems, opts.at), time.Now())
		if opts.snapshotPath == "-" {
			if err := export.WriteJSON(w); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(opts.snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if opts.summary {
		catalog.WriteSummaryTable(w, snap.Systems, snap.LastFetch)
		if snap.Source == state.SourceCache {
			fmt.Fprintln(w, "(from cache)")
		}
	}
	return nil
}

// runTUI starts the interactive scene. The catalog loads in the background
// and arrives as a message.
func (a *app) runTUI(ctx context.Context) error {
	cam := camera.NewController(a.cfg.Camera)
	model := ui.New(a.state, a.client, a.composer, cam, a.log)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	go func() {
		res, source := a.loadCatalog(ctx)
		p.Send(ui.CatalogLoadedMsg{Result: res, Source: source})
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
