package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skilletlabs/skillet/pkg/logger"
)

// Generator owns the write path of the skills directory: rendering
// specs into SKILL.md documents and materializing scripts. Writes are
// synchronous and non-atomic; single-writer usage is assumed.
type Generator struct {
	root string
}

// NewGenerator creates a generator writing under the given skills root.
func NewGenerator(root string) *Generator {
	return &Generator{root: root}
}

// Render renders a spec into SKILL.md content without touching disk.
func (g *Generator) Render(spec SkillSpec) string {
	return RenderDocument(spec)
}

// CreateSkill renders the spec into a new skill directory. It fails
// with ErrSkillExists when the directory is already present, leaving
// the existing files untouched.
func (g *Generator) CreateSkill(ctx context.Context, spec SkillSpec) (string, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return "", errors.New("skill spec has no name")
	}

	dir := filepath.Join(g.root, spec.Name)
	if _, err := os.Stat(dir); err == nil {
		return "", errors.Wrapf(ErrSkillExists, "%q", spec.Name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create skill directory")
	}
	docPath := filepath.Join(dir, SkillFileName)
	if err := os.WriteFile(docPath, []byte(RenderDocument(spec)), 0o644); err != nil {
		return "", errors.Wrap(err, "write SKILL.md")
	}
	if err := g.writeScripts(dir, spec.Scripts); err != nil {
		return "", err
	}

	logger.G(ctx).WithField("skill", spec.Name).Debug("skill created")
	return dir, nil
}

// UpdateResult reports the document contents before and after an update.
type UpdateResult struct {
	Path   string
	Before string
	After  string
}

// UpdateSkill parses the existing document back into a spec,
// shallow-merges the update over it (update wins per field, name
// immutable), and re-renders in place. Newly supplied scripts are
// added; existing scripts are never pruned.
func (g *Generator) UpdateSkill(ctx context.Context, name string, update SkillSpec) (*UpdateResult, error) {
	dir := filepath.Join(g.root, name)
	docPath := filepath.Join(dir, SkillFileName)

	content, err := os.ReadFile(docPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrSkillNotFound, "%q", name)
		}
		return nil, errors.Wrap(err, "read SKILL.md")
	}

	doc, err := ParseDocument(string(content), name, docPath, dir)
	if err != nil {
		return nil, errors.Wrap(err, "parse existing SKILL.md")
	}

	merged := mergeSpec(SpecFromDocument(doc), update)
	merged.Name = name

	rendered := RenderDocument(merged)
	if err := os.WriteFile(docPath, []byte(rendered), 0o644); err != nil {
		return nil, errors.Wrap(err, "write SKILL.md")
	}
	if err := g.writeScripts(dir, update.Scripts); err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("skill", name).Debug("skill updated")
	return &UpdateResult{Path: docPath, Before: string(content), After: rendered}, nil
}

// mergeSpec overlays update on base, field by field. Zero-valued update
// fields keep the base value.
func mergeSpec(base, update SkillSpec) SkillSpec {
	merged := base
	if update.Description != "" {
		merged.Description = update.Description
	}
	if update.QuickStart != "" {
		merged.QuickStart = update.QuickStart
	}
	if len(update.ExecutionSteps) > 0 {
		merged.ExecutionSteps = update.ExecutionSteps
	}
	if len(update.BestPractices) > 0 {
		merged.BestPractices = update.BestPractices
	}
	if len(update.Examples) > 0 {
		merged.Examples = update.Examples
	}
	if update.Domain != "" {
		merged.Domain = update.Domain
	}
	if update.Version != "" {
		merged.Version = update.Version
	}
	if update.Author != "" {
		merged.Author = update.Author
	}
	if len(update.Tags) > 0 {
		merged.Tags = update.Tags
	}
	return merged
}

// writeScripts materializes scripts under <dir>/scripts, marking shell
// scripts executable. Per-script failures are aggregated so one bad
// script does not mask the rest.
func (g *Generator) writeScripts(dir string, scripts []ScriptSpec) error {
	if len(scripts) == 0 {
		return nil
	}

	scriptsDir := filepath.Join(dir, ScriptsDirName)
	if err := os.MkdirAll(scriptsDir, 0o755); err != nil {
		return errors.Wrap(err, "create scripts directory")
	}

	var result *multierror.Error
	for _, s := range scripts {
		name := filepath.Base(s.Name)
		if name == "" || name == "." || name == string(filepath.Separator) {
			result = multierror.Append(result, errors.Errorf("invalid script name %q", s.Name))
			continue
		}
		mode := os.FileMode(0o644)
		if strings.HasSuffix(name, ".sh") {
			mode = 0o755
		}
		if err := os.WriteFile(filepath.Join(scriptsDir, name), []byte(s.Content), mode); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "write script %q", name))
		}
	}
	return result.ErrorOrNil()
}
