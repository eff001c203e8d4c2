package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

var validateCmd = &cobra.Command{
	Use:   "validate <skill-name>",
	Short: "Validate an existing skill",
	Long: `Run the structural rule set against an existing skill document.
With --semantic and a configured provider, a semantic review pass runs
as well; structural errors skip it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		doc, err := newLoader().LoadLevel2(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}
		if doc == nil {
			presenter.Warning(fmt.Sprintf("Skill %q not found", args[0]))
			os.Exit(1)
		}

		semantic, _ := cmd.Flags().GetBool("semantic")
		var provider = providerFromConfig()
		if !semantic {
			provider = nil
		}

		result := skills.Validate(ctx, skills.SpecFromDocument(doc), provider)
		reportIssues(result.Issues)
		if !result.Valid {
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Skill %q is valid (%d issue(s))", args[0], len(result.Issues)))
	},
}

func init() {
	validateCmd.Flags().Bool("semantic", false, "Also run provider-backed semantic validation")
	rootCmd.AddCommand(validateCmd)
}
