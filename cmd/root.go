package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/panecode/internal/config"
	"github.com/zjrosen/panecode/internal/flags"
	"github.com/zjrosen/panecode/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked first and receives the default config when no
// config file exists anywhere.
const localConfigPath = ".panecode/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	logCleanup func()
)

// errNoProject is returned by the root command when no project was ever opened.
var errNoProject = errors.New("no project to open; run 'panecode import <dir>' first")

var rootCmd = &cobra.Command{
	Use:     "panecode",
	Short:   "A terminal pane workspace for project files",
	Long:    `A terminal workspace that shows the files of an imported project in up to three editor panes, with drag and drop from the file list and a terminal pane for the log stream.`,
	Version: version,
	Args:    cobra.NoArgs,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return setupLogging(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},

	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.LastProject == "" {
			return errNoProject
		}
		return runOpen(cmd, cfg.LastProject)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/panecode/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "",
		"directory holding the project database (default: ~/.panecode)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs to the log file (also PANECODE_DEBUG)")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.terminal_height_percent", defaults.UI.TerminalHeightPercent)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("cache.project_name_ttl", defaults.Cache.ProjectNameTTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	for name, enabled := range flags.Defaults() {
		viper.SetDefault("flags."+name, enabled)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .panecode/config.yaml (current directory)
		// 2. ~/.config/panecode/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "panecode"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file found anywhere - create default at .panecode/config.yaml
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		case cfgFile != "" && errors.Is(err, fs.ErrNotExist):
			if writeErr := config.WriteDefaultConfig(cfgFile); writeErr == nil {
				_ = viper.ReadInConfig()
			}
		}
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
}

// configFilePath is where runtime changes (last project, terminal split)
// are saved.
func configFilePath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return localConfigPath
}

// setupLogging always installs the log stream shown in the terminal pane.
// In debug mode every line is also written to the log file.
func setupLogging(cmd *cobra.Command) error {
	debug := debugFlag || os.Getenv("PANECODE_DEBUG") != ""
	if !debug {
		log.InitWriter(nil)
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		return nil
	}

	logPath := os.Getenv("PANECODE_LOG")
	if logPath == "" {
		logPath = cfg.LogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	cleanup, err := log.InitWithTeaLog(logPath, "panecode")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.SetMinLevel(log.LevelDebug)
	log.Info(log.CatConfig, "panecode starting",
		"command", cmd.Name(), "debug", true, "logPath", logPath, "config", viper.ConfigFileUsed())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func trimmedArg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.TrimSpace(args[i])
}
