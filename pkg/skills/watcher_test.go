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

func TestWatcherIndexesNewSkill(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	ix := NewIndexer(root)
	loader := NewLoader(ix, WithIndexMaxAge(time.Hour))
	require.NoError(t, loader.RebuildIndex(ctx))

	w, err := NewWatcher(root, loader)
	require.NoError(t, err)
	defer w.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	writeSkill(t, root, "fresh", "---\nname: fresh\ndescription: Added while watching\n---\n")

	// The persisted index alone proves the watcher did the work: it is
	// well within its staleness window, so only an incremental update
	// can have added the entry.
	require.Eventually(t, func() bool {
		idx, err := ix.GetIndex(ctx, time.Hour)
		return err == nil && idx.Lookup("fresh") != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}

func TestWatcherRemovesDeletedSkill(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	writeSkill(t, root, "doomed", "---\nname: doomed\ndescription: Soon deleted\n---\n")

	ix := NewIndexer(root)
	loader := NewLoader(ix, WithIndexMaxAge(time.Hour))
	require.NoError(t, loader.RebuildIndex(ctx))

	w, err := NewWatcher(root, loader)
	require.NoError(t, err)
	defer w.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, os.RemoveAll(filepath.Join(root, "doomed")))

	require.Eventually(t, func() bool {
		idx, err := ix.GetIndex(ctx, time.Hour)
		return err == nil && idx.Lookup("doomed") == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}

func TestWatcherSkillName(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{root: root}

	assert.Equal(t, "demo", w.skillName(filepath.Join(root, "demo")))
	assert.Equal(t, "demo", w.skillName(filepath.Join(root, "demo", SkillFileName)))
	assert.Equal(t, "demo", w.skillName(filepath.Join(root, "demo", ScriptsDirName, "run.sh")))
	assert.Equal(t, "", w.skillName(filepath.Join(root, IndexFileName)))
	assert.Equal(t, "", w.skillName(filepath.Join(root, ".hidden")))
	assert.Equal(t, "", w.skillName(filepath.Dir(root)))
}
