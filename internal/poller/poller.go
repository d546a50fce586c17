// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/edgeplc/s7south/internal/decode"
	"github.com/edgeplc/s7south/internal/flatten"
	"github.com/edgeplc/s7south/internal/metrics"
	"github.com/edgeplc/s7south/internal/reader"
	"github.com/edgeplc/s7south/internal/schema"
	"github.com/edgeplc/s7south/internal/span"
	"github.com/edgeplc/s7south/internal/status"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Asset    string
	Mode     flatten.Mode
	Interval time.Duration
}

// Poller drives one register map over one device connection: coalesce
// spans, fetch, decode, shape. One decode pass completes fully before
// the next begins; nothing here is safe for concurrent use.
type Poller struct {
	cfg     Config
	sch     schema.Schema
	blocks  []int
	spans   map[int][]span.Interval
	client  reader.Reader
	factory reader.Factory
	health  status.Snapshot
	logger  log.Logger
	metrics *metrics.Metrics
}

// New creates a poller and precomputes each block's coalesced spans.
// Sizing failures surface here, before any device access; a schema
// that cannot be sized cannot be safely fetched.
func New(cfg Config, sch schema.Schema, client reader.Reader, factory reader.Factory,
	logger log.Logger, m *metrics.Metrics) (*Poller, error) {

	if cfg.Asset == "" {
		return nil, errors.New("poller: asset name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(sch) == 0 {
		return nil, errors.New("poller: register map has no blocks")
	}
	mode, ok := flatten.ParseMode(string(cfg.Mode))
	if !ok {
		return nil, fmt.Errorf("poller: unknown save mode %q", cfg.Mode)
	}
	cfg.Mode = mode
	if logger == nil {
		logger = log.NewNopLogger()
	}

	blocks := sch.Blocks()
	spans := make(map[int][]span.Interval, len(blocks))
	for _, db := range blocks {
		s, err := span.ForFields(sch[db])
		if err != nil {
			return nil, fmt.Errorf("poller: block %d: %w", db, err)
		}
		spans[db] = s
	}

	return &Poller{
		cfg:     cfg,
		sch:     sch,
		blocks:  blocks,
		spans:   spans,
		client:  client,
		factory: factory,
		logger:  logger,
		metrics: m,
	}, nil
}

// Interval returns the configured poll period.
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// Status returns the current health snapshot.
func (p *Poller) Status() status.Snapshot { return p.health }

// Spans exposes the precomputed spans of one block.
func (p *Poller) Spans(db int) []span.Interval { return p.spans[db] }

// Detach releases ownership of the device connection so a rebuilt
// poller can reuse it. The poller must not be used afterwards.
func (p *Poller) Detach() (reader.Reader, reader.Factory) {
	c, f := p.client, p.factory
	p.client = nil
	return c, f
}

// Close releases the device connection.
func (p *Poller) Close() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// PollOnce performs exactly one poll cycle. A read failure is fatal
// for that block only; a failed field decode is logged and omitted
// while its siblings are kept. When every block fails the connection
// is dropped and re-dialed on a future cycle.
func (p *Poller) PollOnce() PollResult {
	p.metrics.PollsTotal.Inc()

	res := PollResult{
		Asset:     p.cfg.Asset,
		At:        time.Now(),
		Readings:  make(map[string]decode.Value),
		BlockErrs: make(map[int]error),
	}

	if p.client == nil {
		c, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: connect: %w", err)
			p.observe(res.Err)
			return res
		}
		p.client = c
		p.metrics.ReconnectsTotal.Inc()
		level.Info(p.logger).Log("msg", "device connection established")
	}

	failed := 0
	for _, db := range p.blocks {
		if err := p.pollBlock(db, res.Readings); err != nil {
			res.BlockErrs[db] = err
			failed++
			level.Error(p.logger).Log("msg", "block poll failed", "block", db, "err", err)
		}
	}

	if failed == len(p.blocks) {
		res.Err = errors.New("poller: every block failed, dropping connection")
		if p.client != nil {
			p.client.Close()
			p.client = nil
		}
	}

	p.observe(res.Err)
	return res
}

func (p *Poller) pollBlock(db int, out map[string]decode.Value) error {
	fields := p.sch[db]
	spans := p.spans[db]
	label := strconv.Itoa(db)
	p.metrics.SpansPerBlock.WithLabelValues(label).Set(float64(len(spans)))

	for _, sp := range spans {
		buf, err := p.client.ReadBlock(db, sp.Start, sp.Len())
		if err != nil {
			p.metrics.BlockReadErrors.WithLabelValues(label).Inc()
			return err
		}
		p.metrics.BytesRead.Add(float64(len(buf)))

		for _, f := range fields {
			if !sp.Contains(f.Byte) {
				continue
			}

			v, err := decode.Decode(buf, f.Byte-sp.Start, f.Bit, f.Type)
			if err != nil {
				p.metrics.FieldDecodeErrors.WithLabelValues(label).Inc()
				level.Warn(p.logger).Log("msg", "field decode failed",
					"block", db, "field", f.Name, "err", err)
				// partial struct records are still worth delivering
				if v.Kind != decode.KindRecord || len(v.Rec) == 0 {
					continue
				}
			}

			pairs, err := flatten.Shape(p.cfg.Mode, db, f.Name, v)
			if err != nil {
				level.Warn(p.logger).Log("msg", "shaping failed",
					"block", db, "field", f.Name, "err", err)
				continue
			}
			for _, pr := range pairs {
				out[pr.Key] = pr.Value
			}
		}
	}
	return nil
}

func (p *Poller) observe(err error) {
	if p.health.Observe(err) {
		level.Info(p.logger).Log("msg", "device health changed",
			"health", status.HealthString(p.health.Health))
	}
}
