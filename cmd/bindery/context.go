package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"bindery/internal/analyzer"
	"bindery/internal/config"
	"bindery/internal/fetch"
	"bindery/internal/logging"
	"bindery/internal/manager"
	"bindery/internal/store"
	"bindery/internal/textutil"
)

// commandContext lazily opens the config, logger, store, and manager so
// that commands which never touch the database (config init, help) do not
// take the process lock.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	managerOnce sync.Once
	manager     *manager.Manager
	store       *store.Store
	managerErr  error
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
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureManager opens the store, taking the process lock, and builds the
// manager from the static analyzer table.
func (c *commandContext) ensureManager(ctx context.Context) (*manager.Manager, error) {
	c.managerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.managerErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.managerErr = err
			return
		}

		st, err := store.Open(cfg, textutil.NewNormalizer(textutil.HanOff))
		if err != nil {
			if errors.Is(err, store.ErrLocked) {
				c.managerErr = fmt.Errorf("another bindery process is already running: %w", err)
				return
			}
			c.managerErr = err
			return
		}

		client := fetch.NewClient(cfg.Fetch)
		mgr, err := manager.New(ctx, st, client, logger, analyzer.RegisteredTable())
		if err != nil {
			st.Close()
			c.managerErr = err
			return
		}
		c.store = st
		c.manager = mgr
	})
	return c.manager, c.managerErr
}

// ensureStore is for read-only presentation commands; it still goes
// through the manager so the two never hold separate connections.
func (c *commandContext) ensureStore(ctx context.Context) (*store.Store, error) {
	if _, err := c.ensureManager(ctx); err != nil {
		return nil, err
	}
	return c.store, nil
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}
