// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Proxy mode: filtering reverse proxy in front of the board application,
//     the classification API, health checks and metrics
//   - File mode: filter one saved board page and write the result
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/dc-comment-filter/internal/commentview"
	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
	"github.com/lueurxax/dc-comment-filter/internal/platform/observability"
	"github.com/lueurxax/dc-comment-filter/internal/platform/worker"
)

const (
	shutdownTimeout      = 10 * time.Second
	readHeaderTimeout    = 10 * time.Second
	limiterPruneInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
	upstreamProbeEvery   = 30 * time.Second
	upstreamProbeTimeout = 5 * time.Second
	stdioPath            = "-"
	outputFileMode       = 0o644
)

const (
	logFieldUpstream = "upstream"
	logFieldPort     = "port"
	logFieldInput    = "input"
	logFieldOutput   = "output"
	logFieldHidden   = "hidden"
	logFieldComments = "comments"
	logFieldSkipped  = "skipped"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg    *config.Config
	filter *commentview.Filter
	logger *zerolog.Logger

	stdin  io.Reader
	stdout io.Writer
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		filter: commentview.NewFilter(logger),
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context, ready observability.ReadinessCheck) error {
	srv := observability.NewServer(a.cfg.HealthPort, ready, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunProxy serves the filtering proxy until ctx is canceled.
func (a *App) RunProxy(ctx context.Context) error {
	proxy, err := commentview.NewProxy(a.cfg.ProxyCfg(), a.filter, a.logger)
	if err != nil {
		return fmt.Errorf("proxy init: %w", err)
	}

	limiter := commentview.NewClientLimiter(a.cfg.RateLimitCfg())

	go func() {
		if err := a.StartHealthServer(ctx, proxy.Ping); err != nil {
			a.logger.Error().Err(err).Msg("health check server error")
		}
	}()

	go func() {
		//nolint:errcheck // loop only ends with ctx
		_ = worker.TickerLoop(ctx, worker.TickerConfig{
			Name:       "proxy-maintenance",
			RunOnStart: true,
			Logger:     a.logger,
			Tasks:      a.maintenanceTasks(proxy, limiter),
		})
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.ProxyPort),
		Handler:           a.newHandler(proxy, limiter),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info().
		Int(logFieldPort, a.cfg.ProxyPort).
		Str(logFieldUpstream, a.cfg.UpstreamURL).
		Msg("Comment filter proxy starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("proxy server error: %w", err)
	}

	return ctx.Err()
}

// newHandler routes the classification API and proxies everything else,
// all behind the per-client rate limit.
func (a *App) newHandler(proxy http.Handler, limiter *commentview.ClientLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(commentview.ClassifyPath, commentview.NewClassifyHandler(a.cfg.MaxBodyBytes, a.logger))
	mux.Handle("/", proxy)

	return limiter.Middleware(mux, func() {
		commentview.ProxyRequestsTotal.WithLabelValues(commentview.StatusLimited).Inc()
	})
}

func (a *App) maintenanceTasks(proxy *commentview.Proxy, limiter *commentview.ClientLimiter) []worker.TickerTask {
	return []worker.TickerTask{
		{
			Name:     "limiter-prune",
			Interval: limiterPruneInterval,
			Run: func(context.Context) {
				limiter.Prune(limiterIdleTTL)
				observability.RateLimitedClients.Set(float64(limiter.Clients()))
			},
		},
		{
			Name:     "upstream-probe",
			Interval: upstreamProbeEvery,
			Run: func(ctx context.Context) {
				probeCtx, cancel := context.WithTimeout(ctx, upstreamProbeTimeout)
				defer cancel()

				if err := proxy.Ping(probeCtx); err != nil {
					observability.UpstreamUp.Set(0)
					a.logger.Warn().Err(err).Msg("Upstream probe failed")

					return
				}

				observability.UpstreamUp.Set(1)
			},
		},
	}
}

// FileOptions selects the input and output of file mode. "-" or "" means stdio.
type FileOptions struct {
	In     string
	Out    string
	Reveal bool
}

// RunFile filters one saved page. A page with nothing to filter is written unchanged.
func (a *App) RunFile(opts FileOptions) error {
	raw, err := a.readInput(opts.In)
	if err != nil {
		return err
	}

	page, err := commentview.DecodeHTML(raw, "")
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.In, err)
	}

	out, outcome, err := a.filter.Rewrite(page, commentview.View{Reveal: opts.Reveal})
	if err != nil {
		return fmt.Errorf("filter %s: %w", opts.In, err)
	}

	if !outcome.Applied {
		out = raw
	}

	if err := a.writeOutput(opts.Out, out); err != nil {
		return err
	}

	a.logger.Info().
		Str(logFieldInput, opts.In).
		Str(logFieldOutput, opts.Out).
		Int(logFieldComments, outcome.Comments).
		Int(logFieldHidden, outcome.Hidden).
		Str(logFieldSkipped, outcome.Skipped).
		Msg("Page filtered")

	return nil
}

func (a *App) readInput(path string) ([]byte, error) {
	if path == "" || path == stdioPath {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}

func (a *App) writeOutput(path string, data []byte) error {
	if path == "" || path == stdioPath {
		if _, err := a.stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, outputFileMode); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
