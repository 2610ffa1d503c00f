package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/config"
	"github.com/asrecorded/asrec/internal/logging"
)

// commandContext lazily builds what commands share: the config, the log
// file and an API client carrying the saved session cookies.
type commandContext struct {
	apiFlag *string

	configOnce sync.Once
	config     config.Config

	log *logging.Log
}

func newCommandContext(apiFlag *string) *commandContext {
	return &commandContext{apiFlag: apiFlag}
}

func (c *commandContext) configValue() config.Config {
	c.configOnce.Do(func() {
		c.config = config.Load()
		if c.apiFlag != nil {
			if v := strings.TrimRight(strings.TrimSpace(*c.apiFlag), "/"); v != "" {
				c.config.APIBaseURL = v
			}
		}
	})
	return c.config
}

func (c *commandContext) ensureLogger() error {
	if c.log != nil {
		return nil
	}
	l, err := logging.OpenFromConfig(c.configValue())
	if err != nil {
		return err
	}
	c.log = l
	return nil
}

func (c *commandContext) logger() *slog.Logger {
	if c.log == nil {
		return logging.Discard()
	}
	return c.log.Logger
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.Close()
		c.log = nil
	}
}

// client builds an API client. When a saved session exists for the
// configured backend its cookies are loaded into the jar.
func (c *commandContext) client() (*api.Client, error) {
	cfg := c.configValue()
	opts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(c.logger()),
	}
	sess, err := config.LoadSession()
	if err != nil {
		c.logger().Warn("session file unreadable", "error", err)
	}
	if sess != nil && sess.BaseURL == cfg.APIBaseURL {
		opts = append(opts, api.WithCookies(sess.HTTPCookies()))
	}
	client, err := api.New(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return client, nil
}
