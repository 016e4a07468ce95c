package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/paperlane/storefront/internal/agency"
	"github.com/paperlane/storefront/internal/gateway"
	"github.com/paperlane/storefront/internal/httpserver"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/session"
	"golang.org/x/sync/errgroup"
)

// runServe starts the preview server and keeps the agency store in sync
// until interrupted.
func runServe(cfg appConfig) error {
	lggr, err := logger.New(logger.Config{Level: cfg.logLevel(), JSON: true})
	if err != nil {
		return err
	}
	defer lggr.Sync()

	store, err := agency.NewStore(cfg.DBPath, lggr)
	if err != nil {
		return fmt.Errorf("failed to initialize agency store: %w", err)
	}
	defer store.Close()

	sess := session.Load(cfg.SessionPath)
	srv := httpserver.NewServer(httpserver.Options{
		Addr:    cfg.APIAddr,
		Backend: gateway.New(cfg.gatewayConfig(), lggr),
		Store:   store,
		Token:   sess.Token,
		Timeout: cfg.Timeout,
		Logger:  lggr,
	})

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start preview server: %w", err)
	}

	printStartupBanner(cfg)

	g, gctx := errgroup.WithContext(ctx)

	// Initial agency sync; the server keeps running on failure and
	// POST /api/agency/sync can retry.
	g.Go(func() error {
		n, err := srv.Sync(gctx)
		if err != nil {
			lggr.Warnw("initial agency sync failed", "err", err)
			return nil
		}
		lggr.Infow("agency data synced", "records", n)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		lggr.Errorw("server exited with error", "err", err)
		return err
	}
	return nil
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cyan.Bold(true).Render("    Storefront preview"))
	lines = append(lines, "    "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Endpoints"), "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP           %s", check, cyan.Render(cfg.APIAddr)))
	lines = append(lines, fmt.Sprintf("    %s  Backend        %s", check, dim.Render(cfg.BaseURL)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"), "")
	if cfg.DBPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Agency store   %s", check, dim.Render(shortenPath(cfg.DBPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Agency store   %s", dot, dim.Render("in-memory")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
