// Package wire provides dependency injection for the gatepass application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	cliadapter "github.com/example/gatepass/internal/adapters/cli"
	"github.com/example/gatepass/internal/adapters/filesystem"
	"github.com/example/gatepass/internal/adapters/sqlite"
	"github.com/example/gatepass/internal/app"
	"github.com/example/gatepass/internal/config"
	"github.com/example/gatepass/internal/db"
	"github.com/example/gatepass/internal/logger"
	"github.com/example/gatepass/internal/ports/primary"
	"github.com/example/gatepass/internal/ports/secondary"
)

// Overrides holds command-line values applied on top of the config file.
// Zero values leave the config file setting in place.
type Overrides struct {
	Dir       string // directory holding .gatepass/config.toml; cwd if empty
	StorePath string
	Operator  string
	BatchSize int
	NoLedger  bool
}

var (
	overrides   Overrides
	cfg         *config.Config
	codeService primary.CodeService
	ledgerDB    *sql.DB
	cfgOnce     sync.Once
	once        sync.Once
)

// Configure records command-line overrides. It must be called before the
// first call to Config or CodeService.
func Configure(o Overrides) {
	overrides = o
}

// Config returns the effective configuration (file + overrides).
func Config() *config.Config {
	cfgOnce.Do(initConfig)
	return cfg
}

// CodeService returns the singleton CodeService instance.
func CodeService() primary.CodeService {
	once.Do(initServices)
	return codeService
}

// CodeAdapter returns a new CodeAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CodeAdapter() *cliadapter.CodeAdapter {
	return CodeAdapterWithOutput(os.Stdout)
}

// CodeAdapterWithOutput returns a new CodeAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func CodeAdapterWithOutput(out io.Writer) *cliadapter.CodeAdapter {
	once.Do(initServices)
	return cliadapter.NewCodeAdapter(codeService, out)
}

// Close releases the ledger database, if one was opened.
func Close() error {
	if ledgerDB != nil {
		return ledgerDB.Close()
	}
	return nil
}

func initConfig() {
	dir := overrides.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.Error("failed to get working directory", "error", err)
			os.Exit(1)
		}
		dir = wd
	}

	loaded, err := config.LoadConfig(dir)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if overrides.StorePath != "" {
		loaded.StorePath = overrides.StorePath
	}
	if overrides.Operator != "" {
		loaded.Operator = overrides.Operator
	}
	if overrides.BatchSize > 0 {
		loaded.BatchSize = overrides.BatchSize
	}
	if overrides.NoLedger {
		loaded.NoLedger = true
	}
	cfg = loaded
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	store := filesystem.NewCodeStore()

	// The ledger is an audit trail; the service runs without it if it cannot open.
	var ledger secondary.UsageLedger
	if !c.NoLedger {
		if repo := openLedger(c); repo != nil {
			ledger = repo
		}
	}

	codeService = app.NewCodeService(store, ledger, app.CodeServiceOptions{
		BatchSize: c.BatchSize,
	})
}

func openLedger(c *config.Config) *sqlite.LedgerRepository {
	path, err := c.ResolveLedgerPath(db.DefaultPath)
	if err != nil {
		logger.Warn("usage ledger disabled", "error", err)
		return nil
	}

	database, err := db.Open(path)
	if err != nil {
		logger.Warn("usage ledger disabled", "path", path, "error", err)
		return nil
	}
	ledgerDB = database
	return sqlite.NewLedgerRepository(database)
}
