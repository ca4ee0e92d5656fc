package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/internal/debug"
	"github.com/dyike/CortexFX/internal/logger"
	"github.com/dyike/CortexFX/internal/service"
)

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	debug      bool

	mgr *config.Manager
	cfg *config.Config
	log *logrus.Logger
	svc *service.Service
}

func (a *app) init(ctx context.Context) error {
	mgr, err := config.NewManager(config.WithConfigPath(a.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()
	if a.debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	a.mgr = mgr
	a.cfg = &cfg
	a.log = logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := debug.NewEinoDebugger(a.cfg, a.log).Initialize(ctx); err != nil {
		a.log.WithError(err).Warn("eino debug server unavailable")
	}
	return nil
}

// service builds the analysis service on first use.
func (a *app) service(ctx context.Context) (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := service.NewFromConfig(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}
