package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bigmap/internal/core"
	"bigmap/internal/metrics"
	"bigmap/internal/walk"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	configPath := flag.String("config", "", "path to a YAML map config")
	steps := flag.Int("steps", 1000, "random drags to perform (0 walks until interrupted)")
	tps := flag.Int("tps", 0, "steps per second (0 runs unpaced)")
	maxDrag := flag.Int("max-drag", 0, "largest drag per axis in cells (0 uses one screen height)")
	check := flag.Bool("check", true, "verify the grid invariant after every step")
	addr := flag.String("addr", "", "serve /metrics and /api on this address while walking")
	linger := flag.Bool("linger", false, "keep serving after the walk finishes")
	snapshot := flag.String("png", "", "write a PNG of the final live cells to this path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	var overrides kvList
	flag.Var(&overrides, "set", "map config override in key=value form (repeatable)")
	flag.Parse()

	mapCfg, err := core.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mapCfg = mapCfg.FromMap(core.ParseOverrides(overrides))
	if *logLevel != "" {
		mapCfg.LogLevel = *logLevel
	}
	logger := core.NewLogger(os.Stderr, mapCfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(mapCfg, *steps, *tps, *maxDrag, *check, *addr, *linger, *snapshot, logger); err != nil {
		logger.Error("walk failed", "err", err)
		os.Exit(1)
	}
}

func run(mapCfg core.Config, steps, tps, maxDrag int, check bool, addr string, linger bool, snapshot string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	w, err := walk.New(walk.Config{Map: mapCfg, MaxDrag: maxDrag, Rate: tps, Check: check},
		walk.Options{Logger: logger, PoolObserver: m, MoveObserver: m})
	if err != nil {
		return err
	}

	var srv *http.Server
	if addr != "" {
		srv = &http.Server{
			Addr:              addr,
			Handler:           walk.NewRouter(walk.RouterConfig{Walker: w, Gatherer: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("debug server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug server failed", "err", err)
			}
		}()
	}

	start := time.Now()
	if err := w.Run(ctx, steps); err != nil {
		return err
	}
	st := w.State()
	logger.Info("walk finished",
		"steps", st.Steps,
		"anchor", st.Anchor,
		"live", st.Stats.Live,
		"handles_built", st.Stats.Handles.Constructed,
		"handles_reused", st.Stats.Handles.Reused,
		"elapsed", time.Since(start))

	if snapshot != "" {
		if err := w.WritePNG(snapshot, 4); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", snapshot)
	}

	if srv != nil {
		if linger {
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
