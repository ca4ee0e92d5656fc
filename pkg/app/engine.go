package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/config"
	"github.com/dyike/CortexFX/internal/logger"
	"github.com/dyike/CortexFX/internal/service"
)

// Engine is one immutable build of the analysis service for a given config.
type Engine struct {
	Config  config.Config
	Service *service.Service
	BuiltAt time.Time
	Version uint64
}

var engineSeq atomic.Uint64

func BuildEngine(ctx context.Context, cfg config.Config) (*Engine, error) {
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return buildEngine(ctx, cfg, log)
}

func buildEngine(ctx context.Context, cfg config.Config, log *logrus.Logger) (*Engine, error) {
	svc, err := service.NewFromConfig(ctx, &cfg, log)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:  cfg,
		Service: svc,
		BuiltAt: time.Now(),
		Version: engineSeq.Add(1),
	}, nil
}
