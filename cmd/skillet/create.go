package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

func specFromFlags(cmd *cobra.Command, name string) (skills.SkillSpec, error) {
	description, _ := cmd.Flags().GetString("description")
	domain, _ := cmd.Flags().GetString("domain")
	version, _ := cmd.Flags().GetString("skill-version")
	author, _ := cmd.Flags().GetString("author")
	quickStart, _ := cmd.Flags().GetString("quick-start")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	steps, _ := cmd.Flags().GetStringArray("step")
	practices, _ := cmd.Flags().GetStringArray("practice")
	examples, _ := cmd.Flags().GetStringArray("example")
	scriptPaths, _ := cmd.Flags().GetStringArray("script")

	spec := skills.SkillSpec{
		Name:           name,
		Description:    description,
		QuickStart:     quickStart,
		ExecutionSteps: steps,
		BestPractices:  practices,
		Examples:       examples,
		Domain:         domain,
		Version:        version,
		Author:         author,
		Tags:           tags,
	}

	for _, path := range scriptPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return spec, errors.Wrapf(err, "read script %q", path)
		}
		spec.Scripts = append(spec.Scripts, skills.ScriptSpec{
			Name:    filepath.Base(path),
			Content: string(content),
		})
	}
	return spec, nil
}

func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "Skill description")
	cmd.Flags().String("domain", "", "Skill domain")
	cmd.Flags().String("skill-version", "", "Skill version (semver)")
	cmd.Flags().String("author", "", "Skill author")
	cmd.Flags().String("quick-start", "", "Quick start text")
	cmd.Flags().StringSlice("tag", nil, "Skill tag (repeatable)")
	cmd.Flags().StringArray("step", nil, "Execution step (repeatable, ordered)")
	cmd.Flags().StringArray("practice", nil, "Best practice (repeatable)")
	cmd.Flags().StringArray("example", nil, "Usage example (repeatable)")
	cmd.Flags().StringArray("script", nil, "Path to a script file to install under scripts/ (repeatable)")
}

func reportIssues(issues []skills.ValidationIssue) {
	for _, issue := range issues {
		line := fmt.Sprintf("%s: %s", issue.Field, issue.Message)
		switch issue.Severity {
		case skills.SeverityError:
			presenter.Error(errors.New(line), "Validation")
		case skills.SeverityWarning:
			presenter.Warning(line)
		default:
			presenter.Info(line)
		}
	}
}

var createCmd = &cobra.Command{
	Use:   "create <skill-name>",
	Short: "Create a new skill from flags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		spec, err := specFromFlags(cmd, args[0])
		if err != nil {
			presenter.Error(err, "Invalid skill spec")
			os.Exit(1)
		}

		semantic, _ := cmd.Flags().GetBool("semantic")
		var provider = providerFromConfig()
		if !semantic {
			provider = nil
		}

		result := skills.Validate(ctx, spec, provider)
		reportIssues(result.Issues)
		if !result.Valid {
			os.Exit(1)
		}

		generator := skills.NewGenerator(skillsRoot())
		dir, err := generator.CreateSkill(ctx, spec)
		if err != nil {
			if errors.Is(err, skills.ErrSkillExists) {
				presenter.Error(err, "Skill already exists")
			} else {
				presenter.Error(err, "Failed to create skill")
			}
			os.Exit(1)
		}

		if err := newLoader().Refresh(ctx, spec.Name); err != nil {
			presenter.Warning(fmt.Sprintf("Skill created but index update failed: %v", err))
		}
		presenter.Success(fmt.Sprintf("Created skill %q in %s", spec.Name, dir))
	},
}

func init() {
	addSpecFlags(createCmd)
	createCmd.Flags().Bool("semantic", false, "Also run provider-backed semantic validation")
	rootCmd.AddCommand(createCmd)
}
