package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cppgraph/indexer/internal/diffreport"
	"github.com/cppgraph/indexer/internal/manifest"
)

func newDiffManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "diff-manifest <before.json> <after.json>",
		Short:         "Show a unified diff of two manifest.json invariant reports",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiffManifest(args[0], args[1])
		},
	}
}

func runDiffManifest(beforePath, afterPath string) error {
	before, err := manifest.Read(beforePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", beforePath, err)
	}
	after, err := manifest.Read(afterPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", afterPath, err)
	}

	diff, err := diffreport.Manifests(before, after)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Println("invariant reports are identical")
		return nil
	}
	fmt.Print(diff)
	return nil
}
