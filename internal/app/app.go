// Package app wires configuration, settings, page sources and the scan
// engine into the filter and watch runs.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/articlefilter/internal/cache"
	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/fetch"
	"github.com/hyperifyio/articlefilter/internal/loop"
	"github.com/hyperifyio/articlefilter/internal/report"
	"github.com/hyperifyio/articlefilter/internal/scan"
	"github.com/hyperifyio/articlefilter/internal/settings"
	"github.com/hyperifyio/articlefilter/internal/trigger"
)

// App runs the filter over configured inputs.
type App struct {
	cfg       Config
	store     *settings.Store
	fetcher   *fetch.Client
	httpCache *cache.HTTPCache
	pageURL   *url.URL

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// OnPass, when set, is called on the event loop after every watch pass
	// has been written out.
	OnPass func(scan.Stats)
}

// Result is one filtered page.
type Result struct {
	Input string
	// Output is the written file; empty means stdout.
	Output string
	HTML   []byte
	Stats  scan.Stats
	Report report.Report
}

// New validates cfg and prepares the cache and fetch client.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	store, err := settings.NewStore(orDefault(cfg.SettingsPath, DefaultSettingsPath), cfg.SettingsArea)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, store: store}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || !isURL(u) {
			return nil, fmt.Errorf("config: base URL %q is not an absolute http(s) URL", cfg.BaseURL)
		}
		a.pageURL = u
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("purged expired cache entries")
		}
		if n, err := cache.EnforceHTTPCacheLimits(cfg.CacheDir, cfg.CacheMaxBytes, cfg.CacheMaxEntries); err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("evicted cache entries")
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	a.fetcher = &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.SSLVerify, cfg.FetchTimeout),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.FetchAttempts,
		PerRequestTimeout: cfg.FetchTimeout,
		Cache:             a.httpCache,
		MaxConcurrent:     cfg.Concurrency,
	}
	return a, nil
}

// Close drops the idle keep-alive connections left by URL inputs.
func (a *App) Close() {
	if a.fetcher != nil && a.fetcher.HTTPClient != nil {
		a.fetcher.HTTPClient.CloseIdleConnections()
	}
}

func (a *App) stdin() io.Reader {
	if a.Stdin != nil {
		return a.Stdin
	}
	return os.Stdin
}

func (a *App) stdout() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

// scanConfig merges stored settings with keywords and toggles given for
// this run only.
func (a *App) scanConfig(st settings.Settings) *scan.Config {
	kws := append(slices.Clone(st.Keywords), a.cfg.ExtraKeywords...)
	return scan.NewConfig(kws, st.FilterBody || a.cfg.FilterBody)
}

func (a *App) outputPath(input string) string {
	if a.cfg.OutputDir != "" {
		return deriveOutputPath(a.cfg.OutputDir, input)
	}
	if a.cfg.OutputPath == "-" {
		return ""
	}
	return a.cfg.OutputPath
}

// Filter filters every input once with a forced pass. Inputs are processed
// concurrently; each document is owned by a single goroutine.
func (a *App) Filter(ctx context.Context) ([]Result, error) {
	cfg := a.scanConfig(a.store.LoadOrEmpty())
	if cfg.Keywords.Empty() {
		log.Warn().Msg("no blocked keywords configured; nothing will be hidden")
	}

	results := make([]Result, len(a.cfg.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.cfg.Concurrency))
	for i, in := range a.cfg.Inputs {
		i, in := i, in
		g.Go(func() error {
			r, err := a.filterOne(gctx, in, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if err := a.writeOutput(r.Output, r.HTML); err != nil {
			return nil, err
		}
	}
	if err := a.writeReports(results); err != nil {
		return nil, err
	}
	if a.cfg.OutputDir != "" {
		meta := manifestMeta{
			Version:     BuildVersion,
			Keywords:    cfg.Keywords.Len(),
			FilterBody:  cfg.FilterBody,
			HTTPCache:   a.httpCache != nil,
			GeneratedAt: time.Now().UTC(),
		}
		if err := writeManifest(a.cfg.OutputDir, meta, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (a *App) filterOne(ctx context.Context, input string, cfg *scan.Config) (Result, error) {
	doc, err := a.loadPage(ctx, input)
	if err != nil {
		return Result{}, err
	}
	engine := scan.New(doc, a.cfg.ScanOptions())
	stats := engine.Apply(cfg)
	log.Info().
		Str("input", input).
		Int("hidden", stats.Hidden).
		Str("target", string(stats.Target)).
		Dur("took", stats.Duration).
		Msg("filtered page")
	return Result{
		Input:  input,
		Output: a.outputPath(input),
		HTML:   []byte(doc.String()),
		Stats:  stats,
		Report: report.Build(doc, input, cfg, stats),
	}, nil
}

func (a *App) writeOutput(path string, b []byte) error {
	if path == "" {
		_, err := a.stdout().Write(b)
		return err
	}
	return writeFileAtomic(path, b)
}

func (a *App) writeReports(results []Result) error {
	if a.cfg.ReportPath == "" && a.cfg.ReportPDFPath == "" {
		return nil
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Report.Markdown())
	}
	md := strings.Join(parts, "\n")
	if path := a.cfg.ReportPath; path != "" {
		if path == "-" {
			path = ""
		}
		if err := a.writeOutput(path, []byte(md)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if a.cfg.ReportPDFPath != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.ReportPDFPath), 0o755); err != nil {
			return fmt.Errorf("mkdir report dir: %w", err)
		}
		if err := report.WritePDF(md, a.cfg.ReportPDFPath); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
	}
	return nil
}

// writeFileAtomic replaces path so readers never see a partial page.
func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, bytes.NewReader(b)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Watch keeps a single page live until ctx ends. Settings changes trigger
// an immediate forced pass; document mutations (from --refresh) trigger a
// debounced incremental pass. The output is rewritten after every pass.
func (a *App) Watch(ctx context.Context) error {
	if len(a.cfg.Inputs) != 1 {
		return errors.New("watch takes exactly one input")
	}
	input := a.cfg.Inputs[0]
	doc, err := a.loadPage(ctx, input)
	if err != nil {
		return err
	}

	l := loop.New(0)
	engine := scan.New(doc, a.cfg.ScanOptions())
	pass := func(force bool) {
		stats := engine.Scan(force)
		a.emit(input, doc, engine.Config(), stats)
	}
	deb := loop.NewDebouncer(l, a.cfg.Debounce, func() { pass(false) })
	muts := trigger.Watch(doc, deb)
	defer muts.Stop()
	defer deb.Cancel()

	initial := a.scanConfig(a.store.LoadOrEmpty())
	l.Post(func() {
		engine.SetConfig(initial)
		pass(true)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Run(gctx) })
	g.Go(func() error {
		err := a.store.Watch(gctx, func(st settings.Settings) {
			cfg := a.scanConfig(st)
			l.Post(func() {
				engine.SetConfig(cfg)
				pass(true)
			})
		})
		if err != nil {
			log.Warn().Err(err).Str("path", a.store.Path()).Msg("settings changes will not be picked up")
		}
		return nil
	})
	if a.cfg.Refresh > 0 {
		if input == "-" {
			log.Warn().Msg("stdin input cannot be refreshed")
		} else {
			g.Go(func() error { return a.refresh(gctx, input, doc, l) })
		}
	}
	err = g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// refresh periodically re-reads input and swaps the new body into doc
// through the mutation API, as a page updating itself would. Each swap is
// applied on the loop before the next reload starts.
func (a *App) refresh(ctx context.Context, input string, doc *dom.Document, l *loop.Loop) error {
	t := time.NewTicker(a.cfg.Refresh)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		fresh, err := a.loadPage(ctx, input)
		if err != nil {
			log.Warn().Err(err).Str("input", input).Msg("refresh failed")
			continue
		}
		body := fresh.Body()
		if body == nil {
			continue
		}
		var kids []*html.Node
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			kids = append(kids, c)
		}
		err = l.Do(ctx, func() {
			if b := doc.Body(); b != nil {
				doc.ReplaceChildren(b, kids...)
			}
		})
		if err != nil {
			return nil
		}
	}
}

// emit writes the page and reports after a watch pass. Failures are logged;
// the page stays live.
func (a *App) emit(input string, doc *dom.Document, cfg *scan.Config, stats scan.Stats) {
	out := []byte(doc.String())
	if err := a.writeOutput(a.outputPath(input), out); err != nil {
		log.Error().Err(err).Msg("write output failed")
	}
	r := Result{Input: input, HTML: out, Stats: stats, Report: report.Build(doc, input, cfg, stats)}
	if err := a.writeReports([]Result{r}); err != nil {
		log.Error().Err(err).Msg("write report failed")
	}
	log.Info().
		Bool("forced", stats.Forced).
		Int("hidden", stats.Hidden).
		Str("target", string(stats.Target)).
		Msg("pass written")
	if a.OnPass != nil {
		a.OnPass(stats)
	}
}
