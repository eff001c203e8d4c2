package main

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

var updateCmd = &cobra.Command{
	Use:   "update <skill-name>",
	Short: "Merge changes into an existing skill",
	Long: `Update an existing skill. Flag-supplied fields replace the existing
ones; omitted fields are kept. The skill name is immutable. Supplied
scripts are added without pruning existing ones.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		name := args[0]

		update, err := specFromFlags(cmd, name)
		if err != nil {
			presenter.Error(err, "Invalid skill spec")
			os.Exit(1)
		}

		generator := skills.NewGenerator(skillsRoot())
		result, err := generator.UpdateSkill(ctx, name, update)
		if err != nil {
			if errors.Is(err, skills.ErrSkillNotFound) {
				presenter.Error(err, "Skill not found")
			} else {
				presenter.Error(err, "Failed to update skill")
			}
			os.Exit(1)
		}

		if showDiff, _ := cmd.Flags().GetBool("diff"); showDiff {
			fmt.Print(udiff.Unified("before", "after", result.Before, result.After))
		}

		if err := newLoader().Refresh(ctx, name); err != nil {
			presenter.Warning(fmt.Sprintf("Skill updated but index update failed: %v", err))
		}
		presenter.Success(fmt.Sprintf("Updated skill %q", name))
	},
}

func init() {
	addSpecFlags(updateCmd)
	updateCmd.Flags().Bool("diff", false, "Show a unified diff of the document change")
	rootCmd.AddCommand(updateCmd)
}
