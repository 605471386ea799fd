package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperifyio/articlefilter/internal/app"
	"github.com/hyperifyio/articlefilter/internal/loop"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Keep one page filtered while settings and the page change",
		Long: `Watch filters a single page and keeps it live until interrupted. Edits to
the settings file rescan the whole page at once. With --refresh the page is
reloaded periodically and only new content is classified, after the
--debounce delay has passed without further changes. The output is rewritten
after every pass.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Inputs = args
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Stdin = cmd.InOrStdin()
			a.Stdout = cmd.OutOrStdout()
			return a.Watch(cmd.Context())
		},
	}
	fs := cmd.Flags()
	addPageFlags(fs)
	fs.Duration("debounce", loop.DefaultDelay, "Quiet period before rescanning a changed page")
	fs.Duration("refresh", 0, "Reload the page at this interval; 0 disables")
	return cmd
}
