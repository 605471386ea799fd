package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/articlefilter/internal/loop"
	"github.com/hyperifyio/articlefilter/internal/resolve"
	"github.com/hyperifyio/articlefilter/internal/scan"
	"github.com/hyperifyio/articlefilter/internal/settings"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are HTML files, "-" for stdin, or http(s) URLs.
	Inputs []string
	// OutputPath receives the filtered page of a single input; "-" or empty
	// is stdout.
	OutputPath string
	// OutputDir receives one filtered page per input plus manifest.json.
	// Required with more than one input.
	OutputDir string
	// BaseURL is the page origin for file and stdin inputs.
	BaseURL string

	// Settings
	SettingsPath  string
	SettingsArea  string
	ExtraKeywords []string
	FilterBody    bool

	// Report
	ReportPath    string
	ReportPDFPath string

	// Fetching
	UserAgent     string
	FetchAttempts int
	FetchTimeout  time.Duration
	SSLVerify     bool
	Concurrency   int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxBytes    int64
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool

	// Watch mode
	Debounce time.Duration
	Refresh  time.Duration

	// Resolver and orchestrator tunables
	CardDepth             int
	StripDepth            int
	CardMinChars          int
	CardMaxChars          int
	StripMinChars         int
	StripMaxChars         int
	LabelMaxChars         int
	NextStripMaxChars     int
	NextStripMaxLinks     int
	ContentTargetMinChars int

	Verbose bool
}

// ErrNoInput is returned when no input page was given.
var ErrNoInput = errors.New("no input pages")

// DefaultSettingsPath is used when no settings file is configured.
const DefaultSettingsPath = "articlefilter.settings.yaml"

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	p := resolve.DefaultPolicy()
	o := scan.DefaultOptions()
	return Config{
		OutputPath:            "-",
		SettingsPath:          DefaultSettingsPath,
		SettingsArea:          settings.DefaultArea,
		UserAgent:             "articlefilter/" + BuildVersion,
		FetchAttempts:         3,
		FetchTimeout:          20 * time.Second,
		SSLVerify:             true,
		Concurrency:           4,
		Debounce:              loop.DefaultDelay,
		CardDepth:             p.CardDepth,
		StripDepth:            p.StripDepth,
		CardMinChars:          p.CardMinChars,
		CardMaxChars:          p.CardMaxChars,
		StripMinChars:         o.StripMinChars,
		StripMaxChars:         o.StripMaxChars,
		LabelMaxChars:         p.LabelMaxChars,
		NextStripMaxChars:     p.NextStripMaxChars,
		NextStripMaxLinks:     p.NextStripMaxLinks,
		ContentTargetMinChars: o.ContentTargetMinChars,
	}
}

// ScanOptions converts the tunables into orchestrator options.
func (c Config) ScanOptions() scan.Options {
	p := resolve.DefaultPolicy()
	p.CardDepth = c.CardDepth
	p.StripDepth = c.StripDepth
	p.CardMinChars = c.CardMinChars
	p.CardMaxChars = c.CardMaxChars
	p.LabelMaxChars = c.LabelMaxChars
	p.NextStripMaxChars = c.NextStripMaxChars
	p.NextStripMaxLinks = c.NextStripMaxLinks
	return scan.Options{
		Policy:                p,
		StripMinChars:         c.StripMinChars,
		StripMaxChars:         c.StripMaxChars,
		ContentTargetMinChars: c.ContentTargetMinChars,
	}
}

// ValidateConfig rejects configurations no run can use.
func ValidateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return ErrNoInput
	}
	for _, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.New("config: empty input")
		}
	}
	if len(cfg.Inputs) > 1 && strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output dir is required with several inputs")
	}
	ints := map[string]int{
		"concurrency":          cfg.Concurrency,
		"fetch attempts":       cfg.FetchAttempts,
		"cache max entries":    cfg.CacheMaxEntries,
		"card depth":           cfg.CardDepth,
		"strip depth":          cfg.StripDepth,
		"card min chars":       cfg.CardMinChars,
		"card max chars":       cfg.CardMaxChars,
		"strip min chars":      cfg.StripMinChars,
		"strip max chars":      cfg.StripMaxChars,
		"label max chars":      cfg.LabelMaxChars,
		"next strip max chars": cfg.NextStripMaxChars,
		"next strip max links": cfg.NextStripMaxLinks,
		"content target chars": cfg.ContentTargetMinChars,
	}
	for name, v := range ints {
		if v < 0 {
			return fmt.Errorf("config: negative %s", name)
		}
	}
	if cfg.CacheMaxBytes < 0 || cfg.CacheMaxAge < 0 || cfg.Debounce < 0 || cfg.Refresh < 0 || cfg.FetchTimeout < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.CardMaxChars > 0 && cfg.CardMinChars > cfg.CardMaxChars {
		return errors.New("config: card text window is inverted")
	}
	if cfg.StripMaxChars > 0 && cfg.StripMinChars > cfg.StripMaxChars {
		return errors.New("config: strip text window is inverted")
	}
	if _, err := settings.NewStore(orDefault(cfg.SettingsPath, DefaultSettingsPath), cfg.SettingsArea); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
