// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"github.com/go-kit/log"

	cfgpkg "github.com/edgeplc/s7south/internal/config"
	"github.com/edgeplc/s7south/internal/flatten"
	"github.com/edgeplc/s7south/internal/metrics"
	"github.com/edgeplc/s7south/internal/reader"
	"github.com/edgeplc/s7south/internal/reader/modbusgw"
	"github.com/edgeplc/s7south/internal/schema"
)

// Build constructs a Poller from service configuration and wires the
// gateway client lifecycle. The initial dial fails fast at startup; on
// transport death the poller discards the client and uses the factory
// on a future tick.
func Build(cfg *cfgpkg.Config, logger log.Logger, m *metrics.Metrics) (*Poller, error) {
	src := cfg.S7South.Source

	factory := func() (reader.Reader, error) {
		return modbusgw.New(modbusgw.Config{
			Endpoint:  src.Endpoint,
			UnitID:    src.UnitID,
			Timeout:   time.Duration(src.TimeoutMs) * time.Millisecond,
			BlockBase: src.BlockBase,
		})
	}

	client, err := factory()
	if err != nil {
		return nil, err
	}

	p, err := BuildWith(cfg, client, factory, logger, m)
	if err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

// BuildWith constructs a Poller around an existing connection, used by
// reconfiguration paths that change the map or output mode without
// touching the transport. Span and size caches are rebuilt from
// scratch either way.
func BuildWith(cfg *cfgpkg.Config, client reader.Reader, factory reader.Factory,
	logger log.Logger, m *metrics.Metrics) (*Poller, error) {

	doc, err := cfg.MapDocument()
	if err != nil {
		return nil, err
	}
	sch, err := schema.Load(doc)
	if err != nil {
		return nil, err
	}

	mode, ok := flatten.ParseMode(cfg.S7South.SaveAs)
	if !ok {
		return nil, fmt.Errorf("poller: unknown save mode %q", cfg.S7South.SaveAs)
	}

	return New(
		Config{
			Asset:    cfg.S7South.Asset,
			Mode:     mode,
			Interval: time.Duration(cfg.S7South.Poll.IntervalMs) * time.Millisecond,
		},
		sch,
		client,
		factory,
		logger,
		m,
	)
}
