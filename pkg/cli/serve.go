package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mocklet/mocklet/pkg/config"
	"github.com/mocklet/mocklet/pkg/engine"
	"github.com/mocklet/mocklet/pkg/logging"
	"github.com/mocklet/mocklet/pkg/metrics"
	"github.com/mocklet/mocklet/pkg/rule"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds the flag values bound to the serve command.
var serveFlags struct {
	port        int
	configPath  string
	logLevel    string
	logFormat   string
	tlsCertFile string
	tlsKeyFile  string
	noAccessLog bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server (foreground)",
	Long: `Start the mock server. Routes are loaded from the configuration file once
at startup; a load or validation error aborts startup rather than serving
a partial rule set.`,
	Example: `  # Serve mocklet.yaml on the default port
  mocklet serve

  # Custom config and port
  mocklet serve --config mocks.yaml --port 3000

  # HTTPS
  mocklet serve --tls-cert server.crt --tls-key server.key`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", engine.DefaultPort, "Port to listen on (all interfaces)")
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "f", "", "Config file path (default: mocklet.yaml, or $MOCKLET_CONFIG)")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveFlags.logFormat, "log-format", "text", "Log format: text or json")
	serveCmd.Flags().StringVar(&serveFlags.tlsCertFile, "tls-cert", "", "TLS certificate file (enables HTTPS with --tls-key)")
	serveCmd.Flags().StringVar(&serveFlags.tlsKeyFile, "tls-key", "", "TLS private key file")
	serveCmd.Flags().BoolVar(&serveFlags.noAccessLog, "no-access-log", false, "Disable per-request access logging")
}

func runServe() error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(serveFlags.logLevel),
		Format: logging.ParseFormat(serveFlags.logFormat),
	})

	if (serveFlags.tlsCertFile == "") != (serveFlags.tlsKeyFile == "") {
		return fmt.Errorf("--tls-cert and --tls-key must be set together")
	}

	path := resolveConfigPath(serveFlags.configPath)
	rules, err := loadRules(path, log)
	if err != nil {
		return err
	}

	cfg := engine.DefaultConfig()
	cfg.Port = serveFlags.port
	cfg.TLSCertFile = serveFlags.tlsCertFile
	cfg.TLSKeyFile = serveFlags.tlsKeyFile

	opts := []engine.ServerOption{
		engine.WithLogger(log),
		engine.WithMetrics(metrics.NewSet()),
	}
	if !serveFlags.noAccessLog {
		opts = append(opts, engine.WithAccessLog())
	}

	srv := engine.NewServer(rules, cfg, opts...)
	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}

// loadRules loads and validates the config, logging any warnings, and
// converts it to the immutable rule set. Errors are fatal to the caller.
func loadRules(path string, log *slog.Logger) (*rule.Set, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	result := config.Validate(doc)
	for _, warning := range result.Warnings {
		log.Warn("config warning", "detail", warning.Error())
	}
	if !result.IsValid() {
		return nil, fmt.Errorf("invalid configuration %s:\n%s", path, result.Error())
	}

	log.Info("configuration loaded", "path", path, "routes", len(doc.Routes))
	return config.BuildRules(doc), nil
}
