package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/connmux/internal/config"
	"github.com/zjrosen/connmux/internal/flags"
	"github.com/zjrosen/connmux/internal/infrastructure/sqlite"
	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/paths"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
	"github.com/zjrosen/connmux/internal/ui/playground"
	"github.com/zjrosen/connmux/internal/workspace"
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

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "connmux",
	Short:   "A terminal ui for split-panel connection layouts",
	Long:    `A terminal user interface for arranging remote connections in recursively splittable per-tab panel layouts with drag and drop.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/connmux/config.yaml)")
	rootCmd.Flags().Bool("debug", false,
		"write debug logs to connmux.log")
	rootCmd.Flags().String("store", "",
		"sqlite database for layout snapshots (enables persistence)")
	rootCmd.Flags().String("layout", "default",
		"layout name to save on exit")

	_ = viper.BindPFlag("store.path", rootCmd.Flags().Lookup("store"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("theme.mode", defaults.Theme.Mode)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .connmux/config.yaml (current directory)
		// 2. ~/.config/connmux/config.yaml (user config)
		if _, err := os.Stat(".connmux/config.yaml"); err == nil {
			viper.SetConfigFile(".connmux/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "connmux"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .connmux/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".connmux/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
	if len(cfg.Connections) == 0 {
		cfg.Connections = defaults.Connections
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cleanup, err := log.InitWithTeaLog("connmux.log", "connmux")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
	}

	ctx := context.Background()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	launcher := session.NewLocalLauncher()
	ws := workspace.New(workspace.Config{
		Launcher: launcher,
		Tracer:   provider.Tracer(),
	})
	defer ws.Close()

	// One tab so there is something to split right away.
	if _, err := ws.NewTab(ctx, ""); err != nil {
		return fmt.Errorf("creating initial tab: %w", err)
	}

	var palette []split.RGB
	if len(cfg.Theme.Palette) > 0 {
		palette, err = config.ParsePalette(cfg.Theme.Palette)
		if err != nil {
			return fmt.Errorf("invalid theme palette: %w", err)
		}
	}

	var store *sqlite.LayoutStore
	if path := paths.ExpandHome(viper.GetString("store.path")); path != "" {
		db, err := sqlite.NewDB(path)
		if err != nil {
			return fmt.Errorf("opening layout store: %w", err)
		}
		defer func() { _ = db.Close() }()
		store = db.LayoutStore()
		logSavedLayouts(store)
	}

	conns := make([]session.ConnectionSpec, 0, len(cfg.Connections))
	for _, c := range cfg.Connections {
		conns = append(conns, c.Spec())
	}

	layoutName, _ := cmd.Flags().GetString("layout")
	zone.NewGlobal()
	model := playground.New(playground.Config{
		Workspace:   ws,
		Connections: conns,
		Palette:     palette,
		Store:       store,
		LayoutName:  layoutName,
		Flags:       flags.New(cfg.Flags),
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	stopWatcher := watchConfig(p)
	defer stopWatcher()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// logSavedLayouts records what the store already holds; restoring a
// layout re-instantiates sessions, which the local launcher fakes, so
// startup only reports instead of auto-loading.
func logSavedLayouts(store *sqlite.LayoutStore) {
	infos, err := store.List()
	if err != nil {
		log.ErrorErr(log.CatStore, "failed to list layouts", err)
		return
	}
	for _, info := range infos {
		log.Info(log.CatStore, "saved layout available",
			"name", info.Name, "tabs", info.TabCount, "saved_at", info.SavedAt)
	}
}

// watchConfig hot-reloads the theme palette when the config file changes
// on disk. Returns a stop function; a watcher failure only disables the
// reload, it never blocks startup.
func watchConfig(p *tea.Program) func() {
	path := viper.ConfigFileUsed()
	if path == "" {
		return func() {}
	}

	watcher, err := config.NewWatcher(config.DefaultWatcherConfig(path))
	if err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config watcher", err)
		return func() {}
	}
	changes, err := watcher.Start()
	if err != nil {
		log.ErrorErr(log.CatConfig, "failed to start config watcher", err)
		_ = watcher.Stop()
		return func() {}
	}

	go func() {
		for range changes {
			var reloaded config.Config
			if err := viper.ReadInConfig(); err != nil {
				continue
			}
			if err := viper.Unmarshal(&reloaded); err != nil {
				continue
			}
			palette, err := config.ParsePalette(reloaded.Theme.Palette)
			if err != nil {
				log.Warn(log.CatConfig, "ignoring invalid palette on reload", "error", err)
				continue
			}
			log.Info(log.CatConfig, "theme palette reloaded", "colors", len(palette))
			p.Send(playground.PaletteMsg(palette))
		}
	}()

	return func() { _ = watcher.Stop() }
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
