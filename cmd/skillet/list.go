package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills in the repository",
	Run: func(cmd *cobra.Command, _ []string) {
		domain, _ := cmd.Flags().GetString("domain")

		loader := newLoader()
		entries, err := loader.SearchLevel1(cmd.Context(), "", domain)
		if err != nil {
			presenter.Error(err, "Failed to load skills")
			os.Exit(1)
		}
		if len(entries) == 0 {
			presenter.Info("No skills found")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDOMAIN\tVERSION\tTOOLS\tDESCRIPTION")
		for _, e := range entries {
			desc := e.Description
			if len(desc) > 60 {
				desc = desc[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.Name, e.Domain, e.Version, len(e.Tools), desc)
		}
		tw.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Show a skill's full document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader := newLoader()
		doc, err := loader.LoadLevel2(cmd.Context(), args[0])
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}
		if doc == nil {
			presenter.Warning(fmt.Sprintf("Skill %q not found", args[0]))
			os.Exit(1)
		}

		if doc.RawContent != "" {
			fmt.Print(doc.RawContent)
			return
		}

		// Stub skill: no SKILL.md on disk, present the summary instead.
		presenter.Section(doc.Title)
		presenter.Info("Domain: " + doc.Domain)
		presenter.Info("Version: " + doc.Version)
		if doc.Description != "" {
			presenter.Info(doc.Description)
		}
		if len(doc.Tags) > 0 {
			presenter.Info("Tags: " + strings.Join(doc.Tags, ", "))
		}
	},
}

func init() {
	listCmd.Flags().String("domain", "", "Only list skills in this domain")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
