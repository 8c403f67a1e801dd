package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/traywin/internal/app"
	"github.com/username/traywin/internal/config"
	"github.com/username/traywin/internal/tray"
	"github.com/username/traywin/internal/window/fyneui"
)

var version = "dev"

var (
	configPath string
	appName    string
	appIcon    string
	appTheme   string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "traywin",
		Short:         "Desktop window with a system tray icon",
		Long:          "Runs a single window and a tray icon whose Show/Quit menu controls the window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.traywin, /etc/traywin)")
	cmd.PersistentFlags().StringVar(&appName, "name", "", "Application display name")
	cmd.PersistentFlags().StringVar(&appIcon, "icon", "", "Path to a PNG icon")
	cmd.PersistentFlags().StringVar(&appTheme, "theme", "", "Visual theme: dark, light or system")

	cmd.AddCommand(validateCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func newLoader(cmd *cobra.Command) *config.Loader {
	loader := config.NewLoader(configPath)
	overrides := map[string]string{
		"name":  "app.name",
		"icon":  "app.icon",
		"theme": "app.theme",
	}
	for flag, key := range overrides {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			loader.Set(key, f.Value.String())
		}
	}
	return loader
}

func run(cmd *cobra.Command) error {
	loader := newLoader(cmd)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger, level, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("session", uuid.NewString()))
	logger.Info("Configuration loaded",
		zap.String("file", loader.File()),
		zap.String("version", version))

	loader.Watch(func(c *config.Config) {
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			logger.Warn("Ignoring invalid log level", zap.String("level", c.Log.Level))
			return
		}
		logger.Info("Log level reloaded", zap.Stringer("level", level.Level()))
	}, func(err error) {
		logger.Warn("Config reload failed", zap.Error(err))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg,
		tray.NewSystrayBackend(logger.Named("systray")),
		fyneui.New(cfg.App.ID, logger.Named("fyne")),
		logger)

	return a.Run(ctx)
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := newLoader(cmd)
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			file := loader.File()
			if file == "" {
				file = "(defaults)"
			}
			fmt.Fprintf(out, "Config:        %s\n", file)
			fmt.Fprintf(out, "App name:      %s\n", cfg.App.Name)
			fmt.Fprintf(out, "App id:        %s\n", cfg.App.ID)
			fmt.Fprintf(out, "Icon:          %s\n", valueOr(cfg.App.Icon, "(built-in)"))
			fmt.Fprintf(out, "Theme:         %s\n", cfg.App.GetTheme())
			fmt.Fprintf(out, "Window title:  %s\n", cfg.Window.Title)
			fmt.Fprintf(out, "Font size:     %g\n", cfg.Window.FontSize)
			fmt.Fprintf(out, "Tray restarts: %d every %s\n", cfg.Tray.MaxRestarts, cfg.Tray.GetRestartDelay())
			fmt.Fprintf(out, "Log:           %s (%s)\n", valueOr(cfg.Log.File, "stderr"), cfg.Log.Level)
			fmt.Fprintln(out, "✅ Configuration is valid")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
