// Command indexer drives the C++ source-code graph indexer end to end:
// read a compilation database, run the translation-unit pipeline, stitch
// cross-TU edges, verify invariants, and write graph.db + manifest.json
//. Subcommands query/verify/diff-manifest operate on an
// already-built output directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cppgraph/indexer/internal/config"
	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/internal/logx"
	"github.com/cppgraph/indexer/internal/pipeline"
)

func main() {
	root := newRootCmd()
	root.AddCommand(newQueryCmd(), newVerifyCmd(), newDiffManifestCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(indexerr.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config
	var envFile string

	cmd := &cobra.Command{
		Use:           "indexer <compile_commands.json>",
		Short:         "Index a C++ codebase into a queryable property graph",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return fmt.Errorf("loading env file: %w", err)
			}
			cfg.CompileDB = args[0]
			config.ApplyEnvOverrides(&cfg)
			logx.SetLevel(cfg.LogLevel)
			if err := config.Validate(&cfg); err != nil {
				return err
			}
			return runIndex(cmd.Context(), &cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.OutputDB, "output-db", "", "output directory for graph.db and manifest.json (required)")
	flags.BoolVar(&cfg.Overwrite, "overwrite", false, "remove an existing output database before indexing")
	flags.IntVar(&cfg.Threads, "threads", 0, "worker count, 0 means runtime.NumCPU()-1")
	flags.DurationVar(&cfg.TUTimeout, "tu-timeout", pipeline.DefaultTUTimeout, "per-TU wall-clock budget")
	flags.BoolVar(&cfg.FailFast, "fail-fast", false, "abort the run on the first TU failure")
	flags.BoolVar(&cfg.CGOSQLite, "cgo-sqlite", false, "use the CGO mattn/go-sqlite3 dialector instead of the pure-Go default")
	flags.StringVar(&cfg.ReplicaDSN, "replica-dsn", "", "libsql/Turso DSN opened and schema-migrated as a replica (rows are not copied to it)")
	flags.StringSliceVar(&cfg.Exclude, "exclude", nil, "glob(s) excluding compilation-database entries by resolved file path")
	flags.StringSliceVar(&cfg.Include, "include", nil, "glob(s) restricting compilation-database entries by resolved file path")
	flags.StringVar(&envFile, "env-file", "", "optional .env file, overrides INDEXER_ENV_FILE")
	flags.StringVar(&cfg.CreatedAt, "created-at", "", "RFC3339 timestamp recorded in manifest.json, overrides INDEXER_CREATED_AT; defaults to the current time, set this for byte-reproducible builds")

	return cmd
}
