// cmd/s7south/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgeplc/s7south/internal/config"
	"github.com/edgeplc/s7south/internal/metrics"
	"github.com/edgeplc/s7south/internal/plugin"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: s7south <config.yaml>")
		os.Exit(2)
	}
	if os.Args[1] == "--version" {
		fmt.Println("s7south", Version)
		return
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	logger := newLogger(cfg.S7South.Log)
	level.Info(logger).Log("msg", "starting s7south", "version", Version, "config", cfgPath)

	// --------------------
	// Metrics endpoint (optional)
	// --------------------

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if listen := cfg.S7South.Metrics.Listen; listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: listen, Handler: mux}
		go func() {
			level.Info(logger).Log("msg", "metrics endpoint listening", "addr", listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				level.Error(logger).Log("msg", "metrics endpoint failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	// --------------------
	// Build plugin
	// --------------------

	pl, err := plugin.New(cfg, logger, m)
	if err != nil {
		level.Error(logger).Log("msg", "plugin init failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Poll loop
	// --------------------

	enc := json.NewEncoder(os.Stdout)
	ticker := time.NewTicker(pl.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			level.Info(logger).Log("msg", "shutdown signal received")
			if err := pl.Shutdown(); err != nil {
				level.Warn(logger).Log("msg", "shutdown error", "err", err)
			}
			return

		case <-ticker.C:
			r, err := pl.Poll()
			if err != nil {
				// logged with context inside the poller; keep ticking
				continue
			}
			if len(r.Readings) == 0 {
				continue
			}
			if err := enc.Encode(r); err != nil {
				level.Error(logger).Log("msg", "reading emit failed", "err", err)
			}
		}
	}
}

// newLogger builds the process logger per the log section of the
// config, already validated and normalized.
func newLogger(lc config.LogConfig) log.Logger {
	var logger log.Logger
	if lc.Format == "json" {
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	} else {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}

	var opt level.Option
	switch lc.Level {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	logger = level.NewFilter(logger, opt)

	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
