package debug

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/eino-ext/devops"
	"github.com/sirupsen/logrus"

	"github.com/dyike/CortexFX/config"
)

// EinoDebugger starts the eino visual debug server so the analysis chain can be
// inspected while it runs.
type EinoDebugger struct {
	config *config.Config
	log    *logrus.Logger
}

func NewEinoDebugger(cfg *config.Config, log *logrus.Logger) *EinoDebugger {
	return &EinoDebugger{
		config: cfg,
		log:    log,
	}
}

func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() {
		return nil
	}

	d.log.WithField("port", d.config.EinoDebugPort).Debug("initializing eino debug plugin")

	err := devops.Init(ctx, devops.WithDevServerPort(strconv.Itoa(d.config.EinoDebugPort)))
	if err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}

	d.log.WithField("url", d.GetDebugURL()).Info("eino debug server started")
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config != nil && d.config.EinoDebugEnabled
}

func (d *EinoDebugger) GetDebugURL() string {
	if !d.IsEnabled() {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
