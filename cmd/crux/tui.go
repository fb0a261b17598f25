package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/app"
	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/services"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/tabs/insights"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/tabs/report"
	"github.com/j-veylop/crux-dashboard-tui/internal/ui/tabs/search"
)

// runTUI loads configuration, starts the services and runs the dashboard
// until the user quits.
func runTUI(level slog.Level) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The alternate screen owns stderr while the program runs.
	logFile, err := logger.SetupFile(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer func() {
		_ = logFile.Close()
	}()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Error("error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager, cfg)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		search.New(state),
		report.New(state),
		insights.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("starting dashboard",
		"backend", cfg.BackendURL, "urls", len(svcManager.URLs()), "seed", svcManager.SeedFile())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
