package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/dc-comment-filter/internal/app"
	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
	"github.com/lueurxax/dc-comment-filter/internal/platform/observability"
)

func main() {
	mode := flag.String("mode", "proxy", "Service mode (proxy, file)")
	in := flag.String("in", "-", "Input page for file mode, - for stdin")
	out := flag.String("out", "-", "Output path for file mode, - for stdout")
	reveal := flag.Bool("reveal", false, "Render spam comments shown instead of hidden (file mode)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.BuildInfo.WithLabelValues(*mode, cfg.AppEnv).Set(1)

	application := app.New(cfg, &logger)

	if err := runMode(ctx, application, *mode, app.FileOptions{In: *in, Out: *out, Reveal: *reveal}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string, file app.FileOptions) error {
	switch mode {
	case "proxy":
		return application.RunProxy(ctx)
	case "file":
		return application.RunFile(file)
	default:
		log.Fatalf("Usage: %s --mode=[proxy|file] [--in page.html] [--out filtered.html] [--reveal]", os.Args[0])

		return nil
	}
}
