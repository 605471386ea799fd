package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the tool reads.
const EnvPrefix = "ARTICLEFILTER_"

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file and before flags, so env beats the file
// and flags beat env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	getenv := func(key string) string { return strings.TrimSpace(os.Getenv(EnvPrefix + key)) }
	setStr := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if n, err := strconv.Atoi(getenv(key)); err == nil && n >= 0 {
			*dst = n
		}
	}
	setDur := func(dst *time.Duration, key string) {
		if d, err := time.ParseDuration(getenv(key)); err == nil {
			*dst = d
		}
	}
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(getenv(key)) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}

	if v := getenv("INPUTS"); v != "" {
		cfg.Inputs = splitList(v)
	}
	setStr(&cfg.OutputPath, "OUTPUT")
	setStr(&cfg.OutputDir, "OUTPUT_DIR")
	setStr(&cfg.BaseURL, "BASE_URL")

	setStr(&cfg.SettingsPath, "SETTINGS")
	setStr(&cfg.SettingsArea, "SETTINGS_AREA")
	if v := getenv("KEYWORDS"); v != "" {
		cfg.ExtraKeywords = splitList(v)
	}
	setBool(&cfg.FilterBody, "FILTER_BODY")

	setStr(&cfg.ReportPath, "REPORT")
	setStr(&cfg.ReportPDFPath, "REPORT_PDF")

	setStr(&cfg.UserAgent, "USER_AGENT")
	setInt(&cfg.FetchAttempts, "FETCH_ATTEMPTS")
	setDur(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setBool(&cfg.SSLVerify, "SSL_VERIFY")
	setInt(&cfg.Concurrency, "CONCURRENCY")

	setStr(&cfg.CacheDir, "CACHE_DIR")
	setDur(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	if n, err := strconv.ParseInt(getenv("CACHE_MAX_BYTES"), 10, 64); err == nil && n >= 0 {
		cfg.CacheMaxBytes = n
	}
	setInt(&cfg.CacheMaxEntries, "CACHE_MAX_ENTRIES")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")

	setDur(&cfg.Debounce, "DEBOUNCE")
	setDur(&cfg.Refresh, "REFRESH")

	setBool(&cfg.Verbose, "VERBOSE")
	// plain VERBOSE is honoured too
	if v := strings.TrimSpace(os.Getenv("VERBOSE")); v == "1" || strings.EqualFold(v, "true") {
		cfg.Verbose = true
	}
}

// splitList splits a comma-separated value, dropping empty parts.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
