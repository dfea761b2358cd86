// Package store adapts the graph schema (models package) onto gorm over
// SQLite. Two dialectors are supported: the default pure-Go
// glebarez/sqlite driver, and an opt-in CGO build using
// gorm.io/driver/sqlite + mattn/go-sqlite3 for callers that already link
// CGO elsewhere. A ReplicaDSN is opened through the libsql/Turso client as
// a secondary replica connection and migrated; batch commits write to the
// primary store only and are not copied to the replica.
package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	glebarez "github.com/glebarez/sqlite"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	mattnsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppgraph/indexer/internal/indexerr"
	"github.com/cppgraph/indexer/internal/logx"
	"github.com/cppgraph/indexer/models"
)

// Options controls how Open establishes the primary store.
type Options struct {
	// Path is the output database file path (--output-db).
	Path string
	// Overwrite removes any existing file at Path before connecting.
	Overwrite bool
	// CGO selects the mattn/go-sqlite3-backed dialector instead of the
	// default pure-Go glebarez one.
	CGO bool
	// ReplicaDSN, if set, is a libsql/Turso URL that Open connects to and
	// migrates. Committed batches are not copied to it.
	ReplicaDSN string
	// Debug enables gorm's query logger at Info level.
	Debug bool
}

// Store owns the primary gorm connection and an optional replica mirror.
type Store struct {
	DB      *gorm.DB
	replica *gorm.DB
}

// Open connects to the output database, ensures its directory exists,
// applies pragmas, runs AutoMigrate, and wires an optional replica.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, &indexerr.ArgumentError{Msg: "output database path must not be empty"}
	}

	if opts.Overwrite {
		if err := os.Remove(opts.Path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("store: overwrite: %w", err)
		}
	} else if _, err := os.Stat(opts.Path); err == nil {
		return nil, indexerr.ErrOutputExists
	}

	dir := filepath.Dir(opts.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create output directory: %w", err)
	}

	gcfg := &gorm.Config{}
	if opts.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	if opts.CGO {
		dialector = mattnsqlite.Open(dsnWithPragmas(opts.Path))
	} else {
		dialector = glebarez.Open(dsnWithPragmas(opts.Path))
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", &indexerr.StoreError{Transient: false, Err: err})
	}

	s := &Store{DB: db}

	if opts.ReplicaDSN != "" {
		replica, err := openReplica(opts.ReplicaDSN, gcfg)
		if err != nil {
			logx.WithError(err).Warn("store: replica mirror unavailable, continuing primary-only")
		} else {
			s.replica = replica
		}
	}

	return s, nil
}

// OpenExisting connects to an already-built graph.db for read-only use
// (the `query`/`verify`/`diff-manifest` subcommands), skipping the
// create-or-overwrite checks Open applies for a fresh indexing run.
// AutoMigrate still runs so that an older on-disk schema missing a
// recently added column/table is brought up to date rather than erroring
// on first query.
func OpenExisting(path string) (*Store, error) {
	if path == "" {
		return nil, &indexerr.ArgumentError{Msg: "database path must not be empty"}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &indexerr.ArgumentError{Msg: fmt.Sprintf("database not found at %s", path)}
		}
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}

	db, err := gorm.Open(glebarez.Open(dsnWithPragmas(path)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", &indexerr.StoreError{Transient: false, Err: err})
	}
	return &Store{DB: db}, nil
}

func dsnWithPragmas(path string) string {
	return path + "?_busy_timeout=5000&_foreign_keys=ON&_journal_mode=WAL&_synchronous=NORMAL"
}

func openReplica(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	var connector driver.Connector
	var err error
	token := os.Getenv("INDEXER_LIBSQL_AUTH_TOKEN")
	if token != "" {
		connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
	} else {
		connector, err = libsql.NewConnector(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("libsql connector: %w", err)
	}
	conn := sql.OpenDB(connector)
	dialector := mattnsqlite.New(mattnsqlite.Config{
		DriverName: "libsql",
		Conn:       conn,
		DSN:        dsn,
	})
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("libsql open: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("libsql migrate: %w", err)
	}
	return db, nil
}

// IsLibsqlDSN reports whether dsn looks like a Turso/libsql URL rather than
// a local file path.
func IsLibsqlDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://")
}

// Close closes the primary connection and, if present, the replica mirror.
func (s *Store) Close() error {
	var firstErr error
	if sqlDB, err := s.DB.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			firstErr = cerr
		}
	}
	if s.replica != nil {
		if sqlDB, err := s.replica.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return firstErr
}

// HasReplica reports whether a replica mirror is configured and connected.
func (s *Store) HasReplica() bool { return s.replica != nil }
