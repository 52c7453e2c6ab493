package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/outlines/internal/catalog"
	"github.com/abhisek/outlines/internal/config"
	"github.com/abhisek/outlines/internal/logger"
	"github.com/abhisek/outlines/internal/service"
	"github.com/abhisek/outlines/internal/store"
)

// newLogger builds the command logger. The terminal UI only logs to
// OUTLINES_LOG_FILE so log lines never land on screen.
func newLogger(cfg config.Config, tui bool) (*logger.Logger, error) {
	switch {
	case cfg.LogFile != "":
		return logger.NewFile(cfg.LogMode, cfg.LogFile)
	case tui:
		return logger.Nop(), nil
	}
	return logger.New(cfg.LogMode)
}

// openService opens the store and catalog and builds the service. The
// returned func closes the store.
func openService(cfg config.Config, log *logger.Logger) (*service.Service, func(), error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	svc := service.New(st, cat, service.Options{
		Policy: cfg.Policy,
		Bounds: cfg.Justification,
		Logger: log,
	})
	log.Debug("service ready", "catalog_version", cat.Version(), "standards", cat.Len())
	return svc, func() { _ = st.Close() }, nil
}

// localActor names the person behind local commands in the audit log.
func localActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
