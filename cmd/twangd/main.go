package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"twang/internal/config"
	"twang/internal/daemon"
	"twang/internal/logging"
	"twang/internal/preflight"
	"twang/internal/services/ffmpeg"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "twangd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, _, _, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) > 0 {
		for _, result := range failed {
			logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
		}
		return fmt.Errorf("%d preflight check(s) failed", len(failed))
	}
	if err := checkDependencies(logger, cfg); err != nil {
		return err
	}

	lockPath := filepath.Join(cfg.Paths.WorkDir, "twangd.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another twangd instance is already running")
	}
	defer func() { _ = lock.Unlock() }()

	pidPath := filepath.Join(cfg.Paths.WorkDir, "twangd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, sinks, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	transcoder, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Transcode.TimeoutSeconds, logger)
	if err != nil {
		return err
	}

	orchestrator, err := buildOrchestrator(cfg, transcoder, logger, sinks)
	if err != nil {
		return err
	}

	options := []daemon.Option{daemon.WithTranscoder(transcoder)}
	if store != nil {
		options = append(options, daemon.WithHistory(store))
	}

	srv, err := daemon.New(cfg, orchestrator, logger, options...)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	logger.Info("twangd started",
		logging.String("address", srv.Addr()),
		logging.String("lock", lockPath),
	)

	<-ctx.Done()
	logger.Info("twangd shutting down")
	return nil
}
