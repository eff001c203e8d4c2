package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search skills by text",
	Long: `Search skills by case-insensitive text match over name, title,
description, and tags. Multiple query words are OR-ed to favor recall.
With a configured provider the embedding capability is consulted, but
search currently always uses text fallback.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		domain, _ := cmd.Flags().GetString("domain")
		query := strings.Join(args, " ")

		loader := newLoader()
		entries, err := loader.LoadAllLevel1(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to load skills")
			os.Exit(1)
		}

		pool := skills.SearchByText(entries, "", domain)
		outcome := skills.SearchWithProviderDetailed(cmd.Context(), pool, query, providerFromConfig())
		if len(outcome.Skills) == 0 {
			presenter.Info("No matching skills")
			return
		}
		if outcome.FallbackUsed {
			presenter.Info(fmt.Sprintf("%d match(es) (text search)", len(outcome.Skills)))
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDOMAIN\tDESCRIPTION")
		for _, e := range outcome.Skills {
			desc := e.Description
			if len(desc) > 70 {
				desc = desc[:67] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Domain, desc)
		}
		tw.Flush()
	},
}

func init() {
	searchCmd.Flags().String("domain", "", "Restrict matches to this domain")
	rootCmd.AddCommand(searchCmd)
}
