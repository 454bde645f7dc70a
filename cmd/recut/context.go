package main

import (
	"log/slog"
	"strings"
	"sync"

	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
	})
	return c.logger, c.loggerErr
}

// withStore opens the catalog, runs fn, and closes the store afterwards.
func (c *commandContext) withStore(fn func(*catalog.Store, *config.Config, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Paths.Catalog, catalog.Seed{
		Sources:       cfg.Catalog.Sources,
		DefaultSource: cfg.Catalog.DefaultSource,
	}, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store, cfg, logger)
}
