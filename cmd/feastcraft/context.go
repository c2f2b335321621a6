package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *zap.Logger
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
		c.config, c.configErr = config.LoadConfig(path)
	})
	return c.config, c.configErr
}

// logger builds the process logger once. Commands that skip config loading get one for
// the detected environment.
func (c *commandContext) logger() *zap.Logger {
	c.loggerOnce.Do(func() {
		env := config.GetEnvironment()
		if c.config != nil {
			env = c.config.Environment
		}
		l, err := logger.New(env)
		if err != nil {
			l = zap.NewNop()
		}
		c.log = l
	})
	return c.log
}

func (c *commandContext) close() {
	if c.log != nil {
		logger.Sync(c.log)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
