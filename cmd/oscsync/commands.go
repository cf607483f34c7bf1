package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karoux/oscsync/internal/config"
	"github.com/karoux/oscsync/internal/logging"
	"github.com/karoux/oscsync/internal/service"
	"github.com/karoux/oscsync/internal/tui"
)

// Shared flags
var (
	configPath   string
	bindAddress  string
	oscPort      int
	instanceName string
	logLevel     string
)

func init() {
	for _, cmd := range []*cobra.Command{serveCmd, watchCmd} {
		cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
		cmd.Flags().StringVar(&bindAddress, "bind", "", "Query server bind address (overrides config)")
		cmd.Flags().IntVar(&oscPort, "osc-port", 0, "Advertised OSC UDP port (overrides config)")
		cmd.Flags().StringVar(&instanceName, "instance-name", "", "mDNS instance name (overrides config)")
		cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	}
}

// loadConfig merges the config file with command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if bindAddress != "" {
		cfg.BindAddress = bindAddress
	}
	if oscPort != 0 {
		cfg.OSCPort = oscPort
	}
	if instanceName != "" {
		cfg.InstanceName = instanceName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the discovery and synchronization pipeline",
	Long: `Advertise this process's services, browse for peers, and keep the flat
parameter map synchronized until interrupted.

The query server binds an ephemeral port; peers find it through the mDNS
advertisement. Synchronized parameters are streamed to websocket
subscribers on /ws, and Prometheus metrics are served on /metrics.`,
	Example: `  # Run with defaults (loopback, OSC port 9000)
  oscsync serve

  # Run with logging and a custom OSC port
  oscsync serve --osc-port 9100 --log-level info`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	svc, err := service.New(service.Options{Config: cfg})
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return svc.Run()
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline with a live dashboard",
	Long: `Run the full pipeline and show discovered services and the synchronized
parameter map in an interactive terminal dashboard.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The dashboard owns the terminal; logging stays silent unless
	// explicitly requested via environment.
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	return tui.Run(cfg)
}
