package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/panecode/internal/app"
	"github.com/zjrosen/panecode/internal/config"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/ui/terminal"
	"github.com/zjrosen/panecode/internal/workspace"
)

var noAutoRefresh bool

var openCmd = &cobra.Command{
	Use:   "open [project]",
	Short: "Open a project in the pane workspace",
	Long: `Open a project, by ID or name, in the pane workspace.

Without an argument the last opened project is used.

Drag a file from the list onto a pane with the mouse, or press o/enter to
open it in the focused pane. Press f1 for all key bindings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := trimmedArg(args, 0)
		if ref == "" {
			ref = cfg.LastProject
		}
		if ref == "" {
			return errNoProject
		}
		return runOpen(cmd, ref)
	},
}

func init() {
	openCmd.Flags().BoolVar(&noAutoRefresh, "no-auto-refresh", false,
		"disable automatic file list refresh when the database changes")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, ref string) error {
	ctx := cmd.Context()

	s, err := openStack(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	project, err := s.directory.Resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolving project %q: %w", ref, err)
	}

	term := terminal.New()
	manager := workspace.NewManager(workspace.Options{
		Files:    s.files,
		Terminal: term,
		Projects: s.directory,
		Flags:    cfg.FlagRegistry(),
		Tracer:   s.tracing.Tracer(),
	})
	defer manager.Close()

	if err := manager.Start(ctx, project.ID()); err != nil {
		return fmt.Errorf("opening project %s: %w", project.Name(), err)
	}

	configPath := configFilePath()
	if err := config.SaveLastProject(configPath, project.ID()); err != nil {
		log.WarnErr(log.CatConfig, "save last project failed", err)
	}

	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh {
		cfg.AutoRefresh = false
	}

	zone.NewGlobal()
	model := app.New(app.Services{
		Manager:    manager,
		Files:      s.files,
		Projects:   s.directory,
		Terminal:   term,
		Config:     &cfg,
		ConfigPath: configPath,
		DBPath:     s.db.Path(),
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	stop := handleSignals(ctx, manager, p.Quit)
	_, err = p.Run()
	stop()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// unloader is the part of the workspace manager the signal handler needs.
type unloader interface {
	Unload()
}

// handleSignals runs Unload synchronously when the process is asked to stop,
// then calls quit. The returned function stops listening.
func handleSignals(ctx context.Context, w unloader, quit func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			log.Info(log.CatSession, "signal received, unloading", "signal", sig)
			w.Unload()
			quit()
		case <-ctx.Done():
		}
	}()

	return func() {
		signal.Stop(sigCh)
		cancel()
		<-done
	}
}
