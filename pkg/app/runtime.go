package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dyike/CortexFX/config"
)

const (
	TopicEngineReloaded     = "engine.reloaded"
	TopicEngineReloadFailed = "engine.reload_failed"
)

type EngineBuilder func(context.Context, config.Config) (*Engine, error)

type Option func(*Runtime)

func WithBuilder(builder EngineBuilder) Option {
	return func(r *Runtime) {
		if builder != nil {
			r.builder = builder
		}
	}
}

func WithNotifier(fn func(topic, payload string)) Option {
	return func(r *Runtime) {
		r.notify = fn
	}
}

// Runtime keeps the current Engine for an embedding host and rebuilds it whenever
// the configuration changes. Calls in flight keep the engine they started with.
type Runtime struct {
	cfgMgr *config.Manager
	engine atomic.Pointer[Engine]

	builder EngineBuilder
	notify  func(string, string)
}

func NewRuntime(ctx context.Context, cfgMgr *config.Manager, opts ...Option) (*Runtime, error) {
	if cfgMgr == nil {
		return nil, fmt.Errorf("config manager is required")
	}

	rt := &Runtime{
		cfgMgr:  cfgMgr,
		builder: BuildEngine,
	}
	for _, opt := range opts {
		opt(rt)
	}

	if err := rt.reload(ctx, cfgMgr.Get()); err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *Runtime) Engine() *Engine {
	return r.engine.Load()
}

// UpdateConfigJSON persists the merged config and swaps in a new engine. The old
// engine stays active when the rebuild fails.
func (r *Runtime) UpdateConfigJSON(ctx context.Context, jsonStr string) error {
	if err := r.cfgMgr.UpdateFromJSON(jsonStr); err != nil {
		return err
	}
	return r.reload(ctx, r.cfgMgr.Get())
}

func (r *Runtime) reload(ctx context.Context, cfg config.Config) error {
	engine, err := r.builder(ctx, cfg)
	if err != nil {
		r.notifyFailure(err)
		return err
	}
	r.engine.Store(engine)
	r.notifySuccess(engine)
	return nil
}

func (r *Runtime) notifySuccess(engine *Engine) {
	if r.notify == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"version":  engine.Version,
		"built_at": engine.BuiltAt.UTC().Format(time.RFC3339),
		"model":    engine.Config.Model,
	})
	r.notify(TopicEngineReloaded, string(payload))
}

func (r *Runtime) notifyFailure(err error) {
	if r.notify == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"error": err.Error(),
	})
	r.notify(TopicEngineReloadFailed, string(payload))
}
