package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/therebelrobot/open-strudel-samples/internal/config"
	"github.com/therebelrobot/open-strudel-samples/internal/github"
	"github.com/therebelrobot/open-strudel-samples/internal/library"
	"github.com/therebelrobot/open-strudel-samples/internal/log"
	"github.com/therebelrobot/open-strudel-samples/internal/player"
	"github.com/therebelrobot/open-strudel-samples/internal/store"
	"github.com/therebelrobot/open-strudel-samples/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("strudel %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting strudel", "version", Version)

	st, err := store.New(cfg.Library.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open library store: %w", err)
	}
	defer st.Close()

	client := github.NewClient(cfg.GitHub.Token, logger)
	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.VolumeFlag, cfg.Player.Volume, logger)

	svc := library.NewService(st, client, logger)

	model := tui.NewModel(svc, client, launcher, cfg.UI.PageSize, cfg.UI.DefaultSort, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	// Push library mutations and playback completion into the event loop
	svc.Subscribe(func() {
		p.Send(tui.LibraryChangedMsg{})
	})
	launcher.OnDone(func() {
		p.Send(tui.PlaybackDoneMsg{})
	})

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
