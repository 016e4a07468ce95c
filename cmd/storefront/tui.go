package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paperlane/storefront/internal/agency"
	"github.com/paperlane/storefront/internal/download"
	"github.com/paperlane/storefront/internal/gateway"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/session"
	"github.com/paperlane/storefront/internal/tui"
)

func runTUI(cfg appConfig) error {
	lggr, err := logger.New(logger.Config{Level: cfg.logLevel(), File: cfg.LogFile, JSON: cfg.LogJSON})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer lggr.Sync()

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	store, err := agency.NewStore(cfg.DBPath, lggr)
	if err != nil {
		return fmt.Errorf("failed to initialize agency store: %w", err)
	}
	defer store.Close()

	sess := session.Load(cfg.SessionPath)
	gw := gateway.New(cfg.gatewayConfig(), lggr)

	lggr.Infow("starting tui", "version", version, "base_url", cfg.BaseURL, "config", cfg.ConfigPath)

	app := tui.NewApp(sess, cfg.ToastTTL, lggr,
		tui.NewHomePage(),
		tui.NewPricingPage(gw, cfg.Timeout, lggr),
		tui.NewSignupPage(gw, cfg.SessionPath, cfg.Timeout, lggr),
		tui.NewLegalPage(),
		tui.NewAgencyPage(tui.AgencyConfig{
			Backend:  gw,
			Store:    store,
			Saver:    download.NewSaver(cfg.DownloadDir),
			Token:    sess.Token,
			PageSize: cfg.PageSize,
			Timeout:  cfg.Timeout,
			Logger:   lggr,
		}),
	)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
