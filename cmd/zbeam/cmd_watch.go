package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/z-beam/zbeam/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch Materials.yaml and re-export frontmatter on change",
	Long: `Watches the materials file and re-exports the full frontmatter set
whenever it changes. Runs until interrupted. No LLM calls are made.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	materialsPath := resolvePath(a.cfg.Data.MaterialsPath)
	mw, err := pipeline.NewMaterialsWatcher(materialsPath, a.pipeline)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mw.Start(ctx); err != nil {
		return err
	}
	defer mw.Stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", materialsPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh

	stats := mw.GetStats()
	fmt.Printf("\nStopping: %d change(s) seen, %d re-export(s), %d error(s)\n",
		stats.EventsSeen, stats.Reloads, stats.ReloadErrors)
	return nil
}
