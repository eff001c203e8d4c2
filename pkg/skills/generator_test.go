package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorCreateSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	gen := NewGenerator(root)

	dir, err := gen.CreateSkill(ctx, SkillSpec{
		Name:           "log-analyzer",
		Description:    "Analyze and summarize log files",
		Domain:         "devops",
		ExecutionSteps: []string{"Read the file", "Summarize"},
		Scripts: []ScriptSpec{
			{Name: "analyze.py", Content: "print('hi')\n"},
			{Name: "run.sh", Content: "#!/bin/sh\n"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "log-analyzer"), dir)

	content, err := os.ReadFile(filepath.Join(dir, SkillFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: log-analyzer")
	assert.Contains(t, string(content), "## Execution Steps")

	info, err := os.Stat(filepath.Join(dir, ScriptsDirName, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, ScriptsDirName, "analyze.py"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestGeneratorCreateSkillAlreadyExists(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	gen := NewGenerator(root)

	_, err := gen.CreateSkill(ctx, SkillSpec{Name: "demo", Description: "First write wins"})
	require.NoError(t, err)

	original, err := os.ReadFile(filepath.Join(root, "demo", SkillFileName))
	require.NoError(t, err)

	_, err = gen.CreateSkill(ctx, SkillSpec{Name: "demo", Description: "Second write must lose"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSkillExists))

	// The existing document is untouched by the failed create.
	after, err := os.ReadFile(filepath.Join(root, "demo", SkillFileName))
	require.NoError(t, err)
	assert.Equal(t, string(original), string(after))
}

func TestGeneratorCreateSkillRequiresName(t *testing.T) {
	_, err := NewGenerator(t.TempDir()).CreateSkill(context.Background(), SkillSpec{Description: "nameless"})
	assert.Error(t, err)
}

func TestGeneratorUpdateSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	gen := NewGenerator(root)

	_, err := gen.CreateSkill(ctx, SkillSpec{
		Name:           "demo",
		Description:    "Original description text",
		Domain:         "coding",
		Version:        "1.0.0",
		ExecutionSteps: []string{"Step one", "Step two"},
		Tags:           []string{"original"},
	})
	require.NoError(t, err)

	res, err := gen.UpdateSkill(ctx, "demo", SkillSpec{
		Name:        "renamed-attempt",
		Description: "Updated description text",
		Version:     "1.1.0",
	})
	require.NoError(t, err)
	assert.NotEqual(t, res.Before, res.After)
	assert.Contains(t, res.After, "Updated description text")

	doc, err := ParseDocument(res.After, "demo", "", "")
	require.NoError(t, err)

	// Update wins per field, unset fields survive, name is immutable.
	assert.Equal(t, "demo", doc.Name)
	assert.Equal(t, "Updated description text", doc.Description)
	assert.Equal(t, "1.1.0", doc.Version)
	assert.Equal(t, "coding", doc.Domain)
	assert.Equal(t, []string{"Step one", "Step two"}, doc.ExecutionSteps)
	assert.Equal(t, []string{"original"}, doc.Tags)
}

func TestGeneratorUpdateSkillNotFound(t *testing.T) {
	_, err := NewGenerator(t.TempDir()).UpdateSkill(context.Background(), "ghost", SkillSpec{Description: "whatever"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSkillNotFound))
}

func TestGeneratorUpdateSkillAddsScriptsWithoutPruning(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	gen := NewGenerator(root)

	_, err := gen.CreateSkill(ctx, SkillSpec{
		Name:        "demo",
		Description: "Keeps its scripts",
		Scripts:     []ScriptSpec{{Name: "keep.py", Content: "pass\n"}},
	})
	require.NoError(t, err)

	_, err = gen.UpdateSkill(ctx, "demo", SkillSpec{
		Scripts: []ScriptSpec{{Name: "extra.sh", Content: "#!/bin/sh\n"}},
	})
	require.NoError(t, err)

	scriptsDir := filepath.Join(root, "demo", ScriptsDirName)
	_, err = os.Stat(filepath.Join(scriptsDir, "keep.py"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(scriptsDir, "extra.sh"))
	assert.NoError(t, err)
}

func TestGeneratorRenderRoundTripsThroughLoader(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	gen := NewGenerator(root)

	spec := SkillSpec{
		Name:           "round-trip",
		Description:    "Written by the generator, read by the loader",
		Domain:         "testing",
		Version:        "0.2.0",
		QuickStart:     "Run skillet show round-trip.",
		ExecutionSteps: []string{"Create", "Load", "Compare"},
		Tags:           []string{"codec"},
	}
	_, err := gen.CreateSkill(ctx, spec)
	require.NoError(t, err)

	doc, err := newTestLoader(t, root).LoadLevel2(ctx, "round-trip")
	require.NoError(t, err)
	require.NotNil(t, doc)

	got := SpecFromDocument(doc)
	assert.Equal(t, spec.Description, got.Description)
	assert.Equal(t, spec.ExecutionSteps, got.ExecutionSteps)
	assert.Equal(t, spec.Domain, got.Domain)
	assert.Equal(t, spec.Version, got.Version)
	assert.True(t, strings.Contains(got.QuickStart, "skillet show round-trip"))
}
