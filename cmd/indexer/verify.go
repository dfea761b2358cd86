package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cppgraph/indexer/internal/stitch"
	"github.com/cppgraph/indexer/store"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "verify <db-path>",
		Short:         "Re-run the invariant checks (I1-I8) against an indexed database",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}
}

func runVerify(dbDir string) error {
	s, err := store.OpenExisting(filepath.Join(dbDir, "graph.db"))
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := stitch.VerifyInvariants(s.DB)
	if err != nil {
		return err
	}

	for _, f := range report.Findings {
		kind := "ok"
		switch {
		case f.Count > 0 && f.Fatal:
			kind = "FATAL"
		case f.Count > 0:
			kind = "warning"
		}
		fmt.Printf("%-4s %-7s count=%-6d %s\n", f.Invariant, kind, f.Count, f.Detail)
	}

	if report.HasFatalViolation() {
		return fmt.Errorf("one or more fatal invariants violated")
	}
	return nil
}
