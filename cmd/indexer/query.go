package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cppgraph/indexer/internal/cypher"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/store"
)

func newQueryCmd() *cobra.Command {
	var preset string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:           "query <db-path> [cypher-text]",
		Short:         "Run a read-only Cypher-like query against an indexed database",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			if preset != "" {
				presetText, ok := cypher.ResolvePreset(preset)
				if !ok {
					return &indexerr.ArgumentError{Msg: fmt.Sprintf("unknown preset %q", preset)}
				}
				text = presetText
			}
			if text == "" {
				return &indexerr.ArgumentError{Msg: "either cypher-text or --preset is required"}
			}
			return runQuery(args[0], text, jsonOut)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "named built-in query (overrides-of, specializes-of, cfg-fallthrough-successors)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON instead of a table")
	return cmd
}

func runQuery(dbDir, text string, jsonOut bool) error {
	s, err := store.OpenExisting(filepath.Join(dbDir, "graph.db"))
	if err != nil {
		return err
	}
	defer s.Close()

	rs, err := s.Query(text)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	return printTable(rs)
}

func printTable(rs *cypher.ResultSet) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range rs.Rows {
		for i, col := range rs.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprintf(w, "%v", row[col])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
