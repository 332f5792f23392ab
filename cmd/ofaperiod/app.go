package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/openbook/libperiod/internal/config"
	"github.com/openbook/libperiod/period"
	"github.com/openbook/libperiod/storage"
	"github.com/openbook/libperiod/storage/memory"
	"github.com/openbook/libperiod/storage/xmlfile"
	"github.com/spf13/cobra"
)

// app carries what the commands share: configuration, logger, engine and
// the rule store, which is opened on first use.
type app struct {
	configPath string
	logLevel   string
	backend    string
	storePath  string

	config *config.Config
	logger *slog.Logger
	engine *period.Engine
	store  storage.Storage

	now func() time.Time
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.now == nil {
		a.now = time.Now
	}

	bootstrap := config.LogConfig{Level: a.logLevel}.NewLogger(cmd.ErrOrStderr())
	cfg, err := config.NewLoader(bootstrap).Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		if _, err := config.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = a.logLevel
	}
	if a.storePath != "" {
		cfg.Storage.Path = a.storePath
		if a.backend == "" {
			cfg.Storage.Backend = config.BackendXML
		}
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.config = cfg

	a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	period.SetLogger(a.logger)

	ec, err := cfg.PeriodEngineConfig()
	if err != nil {
		return err
	}
	a.engine = period.NewEngine(period.WithConfig(ec), period.WithLogger(a.logger))
	return nil
}

// openStore returns the rule store, opening it on first use
func (a *app) openStore() (storage.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	switch a.config.Storage.Backend {
	case config.BackendMemory:
		a.store = memory.New()
	case config.BackendXML:
		s, err := xmlfile.Open(a.config.Storage.Path, xmlfile.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.store = s
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.config.Storage.Backend)
	}
	a.logger.Debug("opened rule store", slog.String("backend", a.config.Storage.Backend))
	return a.store, nil
}

func (a *app) today() time.Time {
	now := a.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (a *app) close() {
	if a.engine != nil {
		a.engine.Close()
	}
}
