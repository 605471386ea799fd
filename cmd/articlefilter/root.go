package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/articlefilter/internal/app"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "articlefilter",
		Short: "Hide news teasers, strips and articles that mention blocked keywords",
		Long: `articlefilter classifies the content blocks of an HTML page (teaser cards,
topical strips, package sections and the main article body) and hides every
block whose text mentions one of the blocked keywords.

Keywords live in a settings file that the watch command follows for changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file")
	pf.StringVar(&opts.envFile, "env-file", "", "Additional dotenv file loaded after .env")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	pf.String("settings", app.DefaultSettingsPath, "Settings file holding the blocked keywords")
	pf.String("settings.area", "sync", "Settings area: sync, local or managed")

	root.AddCommand(
		newFilterCmd(opts),
		newWatchCmd(opts),
		newKeywordsCmd(opts),
		newVersionCmd(),
	)
	return root
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user actually set, in increasing precedence.
func resolveConfig(cmd *cobra.Command, opts *globalOptions) (app.Config, error) {
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(".env", opts.envFile); err != nil {
		return cfg, err
	}
	app.ApplyEnvOverrides(&cfg)
	applyFlags(cmd.Flags(), &cfg)
	setLogLevel(cfg.Verbose)
	return cfg, nil
}

// changed copies a flag value onto dst only when the flag was given.
func changed[T any](fs *pflag.FlagSet, name string, get func(string) (T, error), dst *T) {
	if !fs.Changed(name) {
		return
	}
	if v, err := get(name); err == nil {
		*dst = v
	}
}

func applyFlags(fs *pflag.FlagSet, cfg *app.Config) {
	changed(fs, "verbose", fs.GetBool, &cfg.Verbose)
	changed(fs, "settings", fs.GetString, &cfg.SettingsPath)
	changed(fs, "settings.area", fs.GetString, &cfg.SettingsArea)

	changed(fs, "output", fs.GetString, &cfg.OutputPath)
	changed(fs, "output-dir", fs.GetString, &cfg.OutputDir)
	changed(fs, "base-url", fs.GetString, &cfg.BaseURL)
	changed(fs, "keyword", fs.GetStringSlice, &cfg.ExtraKeywords)
	changed(fs, "filter-body", fs.GetBool, &cfg.FilterBody)
	changed(fs, "report", fs.GetString, &cfg.ReportPath)
	changed(fs, "report.pdf", fs.GetString, &cfg.ReportPDFPath)

	changed(fs, "fetch.ua", fs.GetString, &cfg.UserAgent)
	changed(fs, "fetch.attempts", fs.GetInt, &cfg.FetchAttempts)
	changed(fs, "fetch.timeout", fs.GetDuration, &cfg.FetchTimeout)
	changed(fs, "ssl-verify", fs.GetBool, &cfg.SSLVerify)
	changed(fs, "concurrency", fs.GetInt, &cfg.Concurrency)

	changed(fs, "cache.dir", fs.GetString, &cfg.CacheDir)
	changed(fs, "cache.maxAge", fs.GetDuration, &cfg.CacheMaxAge)
	changed(fs, "cache.maxBytes", fs.GetInt64, &cfg.CacheMaxBytes)
	changed(fs, "cache.maxEntries", fs.GetInt, &cfg.CacheMaxEntries)
	changed(fs, "cache.clear", fs.GetBool, &cfg.CacheClear)
	changed(fs, "cache.strictPerms", fs.GetBool, &cfg.CacheStrictPerms)

	changed(fs, "debounce", fs.GetDuration, &cfg.Debounce)
	changed(fs, "refresh", fs.GetDuration, &cfg.Refresh)

	changed(fs, "scan.cardDepth", fs.GetInt, &cfg.CardDepth)
	changed(fs, "scan.stripDepth", fs.GetInt, &cfg.StripDepth)
	changed(fs, "scan.cardMinChars", fs.GetInt, &cfg.CardMinChars)
	changed(fs, "scan.cardMaxChars", fs.GetInt, &cfg.CardMaxChars)
	changed(fs, "scan.stripMinChars", fs.GetInt, &cfg.StripMinChars)
	changed(fs, "scan.stripMaxChars", fs.GetInt, &cfg.StripMaxChars)
	changed(fs, "scan.labelMaxChars", fs.GetInt, &cfg.LabelMaxChars)
	changed(fs, "scan.nextStripMaxChars", fs.GetInt, &cfg.NextStripMaxChars)
	changed(fs, "scan.nextStripMaxLinks", fs.GetInt, &cfg.NextStripMaxLinks)
	changed(fs, "scan.contentTargetMinChars", fs.GetInt, &cfg.ContentTargetMinChars)
}

// addPageFlags registers the flags shared by filter and watch. Defaults are
// shown for help only; unset flags never override file or env values.
func addPageFlags(fs *pflag.FlagSet) {
	def := app.DefaultConfig()
	fs.StringP("output", "o", def.OutputPath, "Where to write the filtered page (- for stdout)")
	fs.String("base-url", "", "Page URL for file and stdin inputs; decides which links are internal")
	fs.StringSlice("keyword", nil, "Extra blocked keyword for this run (repeatable)")
	fs.Bool("filter-body", false, "Also filter the main article body")
	fs.String("report", "", "Write a Markdown report of hidden content (- for stdout)")
	fs.String("report.pdf", "", "Write the report as PDF")

	fs.String("fetch.ua", def.UserAgent, "User-Agent for URL inputs")
	fs.Int("fetch.attempts", def.FetchAttempts, "Attempts per URL, including the first")
	fs.Duration("fetch.timeout", def.FetchTimeout, "Per-request timeout")
	fs.Bool("ssl-verify", def.SSLVerify, "Verify TLS certificates")

	fs.String("cache.dir", "", "HTTP cache directory; empty disables caching")
	fs.Duration("cache.maxAge", 0, "Purge cache entries older than this; 0 disables")
	fs.Int64("cache.maxBytes", 0, "Evict least recently used entries above this size; 0 disables")
	fs.Int("cache.maxEntries", 0, "Evict least recently used entries above this count; 0 disables")
	fs.Bool("cache.clear", false, "Clear the cache directory before the run")
	fs.Bool("cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")

	fs.Int("scan.cardDepth", def.CardDepth, "Ancestor levels searched for a card")
	fs.Int("scan.stripDepth", def.StripDepth, "Ancestor levels searched for a strip container")
	fs.Int("scan.cardMinChars", def.CardMinChars, "Shortest card text that is matched")
	fs.Int("scan.cardMaxChars", def.CardMaxChars, "Longest card text that is matched")
	fs.Int("scan.stripMinChars", def.StripMinChars, "Shortest strip label that is matched")
	fs.Int("scan.stripMaxChars", def.StripMaxChars, "Longest strip label that is matched")
	fs.Int("scan.labelMaxChars", def.LabelMaxChars, "Longest text treated as a section label")
	fs.Int("scan.nextStripMaxChars", def.NextStripMaxChars, "Short text that ends a sibling run")
	fs.Int("scan.nextStripMaxLinks", def.NextStripMaxLinks, "Most links in an element that ends a sibling run")
	fs.Int("scan.contentTargetMinChars", def.ContentTargetMinChars, "Shortest article body that is matched")
}
