package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the skill index",
	Long: `Rebuild index.json from a full scan of the skills directory. With
--watch, keep running and apply incremental index updates as skills
change on disk.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		loader := newLoader()
		if err := loader.RebuildIndex(ctx); err != nil {
			presenter.Error(err, "Failed to rebuild index")
			os.Exit(1)
		}
		presenter.Success("Index rebuilt")

		if watch, _ := cmd.Flags().GetBool("watch"); !watch {
			return
		}

		watcher, err := skills.NewWatcher(skillsRoot(), loader)
		if err != nil {
			presenter.Error(err, "Failed to start watcher")
			os.Exit(1)
		}
		defer watcher.Close()

		presenter.Info(fmt.Sprintf("Watching %s for changes (Ctrl-C to stop)", skillsRoot()))
		if err := watcher.Run(ctx); err != nil {
			presenter.Error(err, "Watcher stopped")
			os.Exit(1)
		}
	},
}

func init() {
	indexCmd.Flags().Bool("watch", false, "Keep running and index changes incrementally")
	rootCmd.AddCommand(indexCmd)
}
