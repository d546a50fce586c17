// internal/plugin/plugin.go
package plugin

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/edgeplc/s7south/internal/config"
	"github.com/edgeplc/s7south/internal/decode"
	"github.com/edgeplc/s7south/internal/metrics"
	"github.com/edgeplc/s7south/internal/poller"
	"github.com/edgeplc/s7south/internal/status"
)

// Version is the plugin version reported to the host service.
const Version = "1.9.1"

// Info describes the plugin to the host service.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Mode      string `json:"mode"`
	Type      string `json:"type"`
	Interface string `json:"interface"`
}

// About returns the plugin contract information.
func About() Info {
	return Info{
		Name:      "s7south",
		Version:   Version,
		Mode:      "poll",
		Type:      "south",
		Interface: "1.0",
	}
}

// Reading is the envelope delivered to the host per poll.
type Reading struct {
	Key       uuid.UUID               `json:"key"`
	Asset     string                  `json:"asset"`
	Timestamp time.Time               `json:"timestamp"`
	Readings  map[string]decode.Value `json:"readings"`
}

// Plugin owns the poll pipeline for one configured device. It is
// single-threaded by contract: the host calls Poll, Reconfigure and
// Shutdown from one goroutine, never concurrently.
type Plugin struct {
	cfg     *config.Config
	poller  *poller.Poller
	logger  log.Logger
	metrics *metrics.Metrics
}

// New validates and normalizes the configuration, dials the device and
// builds the poll pipeline.
func New(cfg *config.Config, logger log.Logger, m *metrics.Metrics) (*Plugin, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)

	p, err := poller.Build(cfg, logger, m)
	if err != nil {
		return nil, fmt.Errorf("plugin: build pipeline: %w", err)
	}

	return &Plugin{cfg: cfg, poller: p, logger: logger, metrics: m}, nil
}

// Interval returns the configured poll period.
func (p *Plugin) Interval() time.Duration { return p.poller.Interval() }

// Status returns the current device health snapshot.
func (p *Plugin) Status() status.Snapshot { return p.poller.Status() }

// Poll performs one poll cycle and wraps the result in a reading
// envelope. Block failures are logged inside the poller and reflected
// in the health snapshot; the reading still carries whatever decoded.
// A cycle that produced nothing at all is an error.
func (p *Plugin) Poll() (*Reading, error) {
	res := p.poller.PollOnce()
	if res.Err != nil {
		return nil, res.Err
	}

	return &Reading{
		Key:       uuid.New(),
		Asset:     res.Asset,
		Timestamp: res.At,
		Readings:  res.Readings,
	}, nil
}

// Reconfigure swaps in a new configuration. Changes to connection keys
// tear down the device connection and dial fresh; map or output
// changes rebuild the pipeline (invalidating cached sizes and spans)
// on the existing connection.
func (p *Plugin) Reconfigure(next *config.Config) error {
	if err := config.Validate(next); err != nil {
		return err
	}
	config.Normalize(next)

	if config.ConnectionChanged(p.cfg, next) {
		level.Info(p.logger).Log("msg", "connection configuration changed, restarting pipeline")

		if err := p.poller.Close(); err != nil {
			level.Warn(p.logger).Log("msg", "closing old connection", "err", err)
		}
		np, err := poller.Build(next, p.logger, p.metrics)
		if err != nil {
			return fmt.Errorf("plugin: rebuild pipeline: %w", err)
		}
		p.cfg, p.poller = next, np
		return nil
	}

	client, factory := p.poller.Detach()
	np, err := poller.BuildWith(next, client, factory, p.logger, p.metrics)
	if err != nil {
		// the detached connection must not leak
		if client != nil {
			client.Close()
		}
		return fmt.Errorf("plugin: rebuild pipeline: %w", err)
	}
	p.cfg, p.poller = next, np
	return nil
}

// Shutdown releases the device connection. To be called before the
// host service stops.
func (p *Plugin) Shutdown() error {
	level.Info(p.logger).Log("msg", "plugin shutting down")
	return p.poller.Close()
}
