package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

const (
	FileName   = "config.json"
	AppDirName = "CortexFX"
)

// Manager owns the JSON config file. Every load applies the file first, then the
// environment. API keys supplied by the environment are never written to the file.
type Manager struct {
	path string

	mu  sync.RWMutex
	cfg Config
	// key values as stored in the file, by environment variable
	fileKeys map[string]string
}

type managerOptions struct {
	path    string
	initial *Config
}

type ManagerOption func(*managerOptions)

// WithConfigDir places config.json inside dir.
func WithConfigDir(dir string) ManagerOption {
	return func(o *managerOptions) {
		if dir != "" {
			o.path = filepath.Join(dir, FileName)
		}
	}
}

func WithConfigPath(path string) ManagerOption {
	return func(o *managerOptions) {
		if path != "" {
			o.path = path
		}
	}
}

// WithInitialConfig seeds a config file that does not exist yet. An existing file wins.
func WithInitialConfig(cfg *Config) ManagerOption {
	return func(o *managerOptions) {
		o.initial = cfg
	}
}

func NewManager(opts ...ManagerOption) (*Manager, error) {
	var o managerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.path == "" {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		o.path = p
	}
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	m := &Manager{path: o.path}
	cfg, fileKeys, err := m.read()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		cfg, fileKeys, err = m.seed(o.initial)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	m.cfg = cfg
	m.fileKeys = fileKeys
	return m, nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) Path() string {
	return m.path
}

// Reload re-reads the file and the environment. The current config is kept when the
// result does not validate.
func (m *Manager) Reload() (Config, error) {
	cfg, fileKeys, err := m.read()
	if err != nil {
		return m.Get(), err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.fileKeys = fileKeys
	m.mu.Unlock()
	return cfg, nil
}

// UpdateFromJSON merges a partial JSON object into the current config.
func (m *Manager) UpdateFromJSON(jsonStr string) error {
	cfg := m.Get()
	if err := json.Unmarshal([]byte(jsonStr), &cfg); err != nil {
		return fmt.Errorf("parse config json: %w", err)
	}
	return m.Update(cfg)
}

// Update validates and persists cfg. An unchanged config is not rewritten.
func (m *Manager) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if reflect.DeepEqual(m.cfg, cfg) {
		return nil
	}
	stored := withoutEnvKeys(cfg, m.fileKeys)
	if err := save(m.path, stored); err != nil {
		return err
	}
	m.cfg = cfg
	m.fileKeys = storedKeys(&stored)
	return nil
}

// read loads defaults, the file and the environment, in that order. It also returns
// the API keys as the file stores them.
func (m *Manager) read() (Config, map[string]string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return Config{}, nil, err
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return Config{}, nil, fmt.Errorf("parse %s: %w", m.path, err)
	}
	cfg := *DefaultConfigWithRoot(filepath.Dir(m.path))
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parse %s: %w", m.path, err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", m.path, err)
	}
	return cfg, storedKeys(&onDisk), nil
}

func (m *Manager) seed(initial *Config) (Config, map[string]string, error) {
	cfg := *DefaultConfigWithRoot(filepath.Dir(m.path))
	if initial != nil {
		cfg = *initial
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	stored := withoutEnvKeys(cfg, nil)
	if err := save(m.path, stored); err != nil {
		return Config{}, nil, fmt.Errorf("write initial config: %w", err)
	}
	return cfg, storedKeys(&stored), nil
}

// withoutEnvKeys returns cfg with every key that equals its set environment variable
// replaced by the value the file held before.
func withoutEnvKeys(cfg Config, fileKeys map[string]string) Config {
	for env, field := range cfg.apiKeyFields() {
		if v := os.Getenv(env); v != "" && *field == v {
			*field = fileKeys[env]
		}
	}
	return cfg
}

func storedKeys(cfg *Config) map[string]string {
	keys := make(map[string]string, 3)
	for env, field := range cfg.apiKeyFields() {
		keys[env] = *field
	}
	return keys
}

func defaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		if dir, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, AppDirName, FileName), nil
}

// save replaces path atomically through a temp file in the same directory.
func save(path string, cfg Config) (err error) {
	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "cfg-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush config: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
