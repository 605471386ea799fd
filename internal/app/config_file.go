package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// onto the dotted flag names.
type FileConfig struct {
	Inputs    []string `yaml:"inputs" json:"inputs"`
	Output    string   `yaml:"output" json:"output"`
	OutputDir string   `yaml:"outputDir" json:"outputDir"`
	BaseURL   string   `yaml:"baseURL" json:"baseURL"`
	Verbose   bool     `yaml:"verbose" json:"verbose"`

	Settings struct {
		Path       string   `yaml:"path" json:"path"`
		Area       string   `yaml:"area" json:"area"`
		Keywords   []string `yaml:"keywords" json:"keywords"`
		FilterBody bool     `yaml:"filterBody" json:"filterBody"`
	} `yaml:"settings" json:"settings"`

	Report struct {
		Path string `yaml:"path" json:"path"`
		PDF  string `yaml:"pdf" json:"pdf"`
	} `yaml:"report" json:"report"`

	Fetch struct {
		UserAgent   string        `yaml:"userAgent" json:"userAgent"`
		Attempts    int           `yaml:"attempts" json:"attempts"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
		SSLVerify   *bool         `yaml:"sslVerify" json:"sslVerify"`
		Concurrency int           `yaml:"concurrency" json:"concurrency"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Watch struct {
		Debounce time.Duration `yaml:"debounce" json:"debounce"`
		Refresh  time.Duration `yaml:"refresh" json:"refresh"`
	} `yaml:"watch" json:"watch"`

	Scan struct {
		CardDepth             int `yaml:"cardDepth" json:"cardDepth"`
		StripDepth            int `yaml:"stripDepth" json:"stripDepth"`
		CardMinChars          int `yaml:"cardMinChars" json:"cardMinChars"`
		CardMaxChars          int `yaml:"cardMaxChars" json:"cardMaxChars"`
		StripMinChars         int `yaml:"stripMinChars" json:"stripMinChars"`
		StripMaxChars         int `yaml:"stripMaxChars" json:"stripMaxChars"`
		LabelMaxChars         int `yaml:"labelMaxChars" json:"labelMaxChars"`
		NextStripMaxChars     int `yaml:"nextStripMaxChars" json:"nextStripMaxChars"`
		NextStripMaxLinks     int `yaml:"nextStripMaxLinks" json:"nextStripMaxLinks"`
		ContentTargetMinChars int `yaml:"contentTargetMinChars" json:"contentTargetMinChars"`
	} `yaml:"scan" json:"scan"`
}

// LoadConfigFile reads YAML or JSON into FileConfig. Durations in JSON are
// nanoseconds; YAML also accepts strings such as "90s".
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs
// before environment and flag overrides, so it only replaces defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setDur := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}

	if len(fc.Inputs) > 0 {
		cfg.Inputs = append([]string{}, fc.Inputs...)
	}
	setStr(&cfg.OutputPath, fc.Output)
	setStr(&cfg.OutputDir, fc.OutputDir)
	setStr(&cfg.BaseURL, fc.BaseURL)
	cfg.Verbose = cfg.Verbose || fc.Verbose

	setStr(&cfg.SettingsPath, fc.Settings.Path)
	setStr(&cfg.SettingsArea, fc.Settings.Area)
	if len(fc.Settings.Keywords) > 0 {
		cfg.ExtraKeywords = append([]string{}, fc.Settings.Keywords...)
	}
	cfg.FilterBody = cfg.FilterBody || fc.Settings.FilterBody

	setStr(&cfg.ReportPath, fc.Report.Path)
	setStr(&cfg.ReportPDFPath, fc.Report.PDF)

	setStr(&cfg.UserAgent, fc.Fetch.UserAgent)
	setInt(&cfg.FetchAttempts, fc.Fetch.Attempts)
	setDur(&cfg.FetchTimeout, fc.Fetch.Timeout)
	if fc.Fetch.SSLVerify != nil {
		cfg.SSLVerify = *fc.Fetch.SSLVerify
	}
	setInt(&cfg.Concurrency, fc.Fetch.Concurrency)

	setStr(&cfg.CacheDir, fc.Cache.Dir)
	setDur(&cfg.CacheMaxAge, fc.Cache.MaxAge)
	if fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	setInt(&cfg.CacheMaxEntries, fc.Cache.MaxEntries)
	cfg.CacheClear = cfg.CacheClear || fc.Cache.Clear
	cfg.CacheStrictPerms = cfg.CacheStrictPerms || fc.Cache.StrictPerms

	setDur(&cfg.Debounce, fc.Watch.Debounce)
	setDur(&cfg.Refresh, fc.Watch.Refresh)

	s := fc.Scan
	setInt(&cfg.CardDepth, s.CardDepth)
	setInt(&cfg.StripDepth, s.StripDepth)
	setInt(&cfg.CardMinChars, s.CardMinChars)
	setInt(&cfg.CardMaxChars, s.CardMaxChars)
	setInt(&cfg.StripMinChars, s.StripMinChars)
	setInt(&cfg.StripMaxChars, s.StripMaxChars)
	setInt(&cfg.LabelMaxChars, s.LabelMaxChars)
	setInt(&cfg.NextStripMaxChars, s.NextStripMaxChars)
	setInt(&cfg.NextStripMaxLinks, s.NextStripMaxLinks)
	setInt(&cfg.ContentTargetMinChars, s.ContentTargetMinChars)
}
