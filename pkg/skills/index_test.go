package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, name, content string, scripts ...string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, SkillFileName), []byte(content), 0o644))
	}
	if len(scripts) > 0 {
		scriptsDir := filepath.Join(dir, ScriptsDirName)
		require.NoError(t, os.MkdirAll(scriptsDir, 0o755))
		for _, s := range scripts {
			require.NoError(t, os.WriteFile(filepath.Join(scriptsDir, s), []byte("# script\n"), 0o644))
		}
	}
	return dir
}

func assertTotals(t *testing.T, idx *Index) {
	t.Helper()
	assert.Equal(t, len(idx.Skills), idx.TotalSkills)
	total := 0
	for _, e := range idx.Skills {
		total += len(e.Tools)
	}
	assert.Equal(t, total, idx.TotalTools)
}

func TestIndexerScan(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeSkill(t, root, "demo", "---\nname: demo\ndescription: Demo skill\ndomain: coding\n---\n\n# Demo\n", "a.sh", "b.py")
	writeSkill(t, root, "bare-dir", "")
	writeSkill(t, root, "alpha", "---\nname: alpha\ndescription: First skill\n---\n")

	// Hidden entries and stray files are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644))

	idx, err := NewIndexer(root).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, idx.Skills, 3)
	assertTotals(t, idx)

	// Entries are name-sorted.
	assert.Equal(t, "alpha", idx.Skills[0].Name)
	assert.Equal(t, "bare-dir", idx.Skills[1].Name)
	assert.Equal(t, "demo", idx.Skills[2].Name)

	demo := idx.Lookup("demo")
	require.NotNil(t, demo)
	assert.True(t, demo.HasSkillMd)
	assert.Equal(t, "coding", demo.Domain)
	assert.Equal(t, []string{"skill:demo:a", "skill:demo:b"}, demo.Tools)
	assert.Equal(t, 2, demo.ScriptCount)

	bare := idx.Lookup("bare-dir")
	require.NotNil(t, bare)
	assert.False(t, bare.HasSkillMd)
	assert.Equal(t, "Bare Dir", bare.Title)
	assert.Equal(t, DomainGeneral, bare.Domain)
}

func TestIndexerScriptAllowList(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSkill(t, root, "demo", "---\nname: demo\ndescription: Demo\n---\n", "run.py", "run.sh", "run.ts", "run.js", "notes.txt", "data.csv")

	idx, err := NewIndexer(root).Scan(ctx)
	require.NoError(t, err)

	demo := idx.Lookup("demo")
	require.NotNil(t, demo)
	assert.Equal(t, 4, demo.ScriptCount)
	assert.NotContains(t, demo.Tools, "skill:demo:notes")
	assert.NotContains(t, demo.Tools, "skill:demo:data")
}

func TestIndexerRebuildPersists(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSkill(t, root, "demo", "---\nname: demo\ndescription: Demo\n---\n")

	ix := NewIndexer(root)
	_, err := ix.Rebuild(ctx)
	require.NoError(t, err)

	_, err = os.Stat(ix.IndexPath())
	require.NoError(t, err)

	idx, err := ix.GetIndex(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.TotalSkills)
}

func TestIndexerUpdateSkill(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSkill(t, root, "alpha", "---\nname: alpha\ndescription: A\n---\n")
	writeSkill(t, root, "gamma", "---\nname: gamma\ndescription: C\n---\n")

	ix := NewIndexer(root)
	_, err := ix.Rebuild(ctx)
	require.NoError(t, err)

	t.Run("insert keeps sort order and totals", func(t *testing.T) {
		writeSkill(t, root, "beta", "---\nname: beta\ndescription: B\n---\n", "run.sh")
		idx, err := ix.UpdateSkill(ctx, "beta")
		require.NoError(t, err)
		require.Len(t, idx.Skills, 3)
		assert.Equal(t, "beta", idx.Skills[1].Name)
		assertTotals(t, idx)
	})

	t.Run("replace refreshes entry in place", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "beta", SkillFileName),
			[]byte("---\nname: beta\ndescription: B updated\nversion: 2.0.0\n---\n"), 0o644))
		idx, err := ix.UpdateSkill(ctx, "beta")
		require.NoError(t, err)
		beta := idx.Lookup("beta")
		require.NotNil(t, beta)
		assert.Equal(t, "2.0.0", beta.Version)
		assertTotals(t, idx)
	})

	t.Run("remove splices entry out", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(root, "beta")))
		idx, err := ix.UpdateSkill(ctx, "beta")
		require.NoError(t, err)
		assert.Nil(t, idx.Lookup("beta"))
		assert.Equal(t, 2, idx.TotalSkills)
		assertTotals(t, idx)
	})
}

func TestIndexerCorruptIndexTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSkill(t, root, "demo", "---\nname: demo\ndescription: Demo\n---\n")

	ix := NewIndexer(root)
	require.NoError(t, os.WriteFile(ix.IndexPath(), []byte("{not json"), 0o644))

	idx, err := ix.GetIndex(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.TotalSkills)
	assert.NotNil(t, idx.Lookup("demo"))
}

func TestIndexerStalenessForcesRescan(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSkill(t, root, "old-skill", "---\nname: old-skill\ndescription: Old\n---\n")

	ix := NewIndexer(root)
	_, err := ix.Rebuild(ctx)
	require.NoError(t, err)

	// A skill added behind the index's back is invisible while fresh...
	writeSkill(t, root, "new-skill", "---\nname: new-skill\ndescription: New\n---\n")
	idx, err := ix.GetIndex(ctx, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, idx.Lookup("new-skill"))

	// ...and picked up once the index ages past maxAge.
	ix.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	idx, err = ix.GetIndex(ctx, time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, idx.Lookup("new-skill"))
}

func TestIndexerMissingRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "does-not-exist-yet")

	idx, err := NewIndexer(root).Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, idx.Skills)
	assert.Equal(t, 0, idx.TotalSkills)
}
