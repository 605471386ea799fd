package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/articlefilter/internal/app"
)

func newFilterCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter [input...]",
		Short: "Filter pages once and write the result",
		Long: `Filter parses every input (an HTML file, - for stdin, or an http(s) URL),
runs a full scan with the stored keywords and writes the filtered HTML.
More than one input requires --output-dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Inputs = args
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Stdin = cmd.InOrStdin()
			a.Stdout = cmd.OutOrStdout()

			results, err := a.Filter(cmd.Context())
			if err != nil {
				return err
			}
			hidden := 0
			for _, r := range results {
				hidden += r.Stats.Hidden
			}
			log.Info().Int("pages", len(results)).Int("hidden", hidden).Msg("done")
			return nil
		},
	}
	fs := cmd.Flags()
	addPageFlags(fs)
	fs.String("output-dir", "", "Directory for one filtered page per input plus manifest.json")
	fs.Int("concurrency", app.DefaultConfig().Concurrency, "Pages filtered in parallel")
	return cmd
}
