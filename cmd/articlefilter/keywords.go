package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/articlefilter/internal/app"
	"github.com/hyperifyio/articlefilter/internal/settings"
)

func newKeywordsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the blocked keywords in the settings file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the blocked keywords, one per line",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd, opts)
				if err != nil {
					return err
				}
				st, err := store.Load()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, kw := range st.Keywords {
					fmt.Fprintln(out, kw)
				}
				log.Debug().Bool("filterBody", st.FilterBody).Int("keywords", len(st.Keywords)).Msg("settings")
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <keyword>...",
			Short: "Add keywords; arguments may hold several, separated by commas or newlines",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openStore(cmd, opts)
				if err != nil {
					return err
				}
				var added []string
				_, err = store.Update(func(st *settings.Settings) {
					st.Keywords, added = settings.AddKeywords(st.Keywords, strings.Join(args, "\n"))
				})
				if err != nil {
					return err
				}
				log.Info().Strs("added", added).Msg("keywords updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <keyword>...",
			Short: "Remove keywords by exact match",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openStore(cmd, opts)
				if err != nil {
					return err
				}
				var missing []string
				_, err = store.Update(func(st *settings.Settings) {
					for _, kw := range args {
						var ok bool
						if st.Keywords, ok = settings.RemoveKeyword(st.Keywords, kw); !ok {
							missing = append(missing, kw)
						}
					}
				})
				if err != nil {
					return err
				}
				if len(missing) > 0 {
					log.Warn().Strs("keywords", missing).Msg("not in the list")
				}
				return nil
			},
		},
		newKeywordsSetCmd(opts),
	)
	return cmd
}

func newKeywordsSetCmd(opts *globalOptions) *cobra.Command {
	var filterBody bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored filter options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("filter-body") {
				return fmt.Errorf("nothing to set; pass --filter-body")
			}
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			_, err = store.Update(func(st *settings.Settings) { st.FilterBody = filterBody })
			return err
		},
	}
	cmd.Flags().BoolVar(&filterBody, "filter-body", false, "Filter the main article body too")
	return cmd
}

func openStore(cmd *cobra.Command, opts *globalOptions) (*settings.Store, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	path := cfg.SettingsPath
	if path == "" {
		path = app.DefaultSettingsPath
	}
	return settings.NewStore(path, cfg.SettingsArea)
}
