package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/internal/check"
	"github.com/verustcode/doctest/internal/files"
	"github.com/verustcode/doctest/internal/server"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the rendered reports in a browser",
	Long: `Start a local HTTP server for the output directory.

The index is served at /, reports at /reports/<name>.html and a JSON
listing at /api/v1/reports:
  doctest serve --port 8093`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug mode")
}

// runServe starts the preview server and blocks until it is stopped
func runServe(cmd *cobra.Command, args []string) error {
	result := check.NewChecker(configPath).RunNonInteractive()
	if !result.Success {
		check.PrintCheckResult(result)
		return errors.New(errors.ErrCodeConfigInvalid, "environment check failed")
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "[WARNING] %s\n", warn)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override config with command line flags
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdown, err := setup(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	logger.Info("Starting DocTest preview server", zap.String("version", Version))

	srv := server.New(cfg, files.NewHelper(cfg.Output.Dir))
	srv.SetupRoutes()
	if err := srv.Start(); err != nil {
		return err
	}

	port := cfg.Server.Port
	logger.Info(fmt.Sprintf("  Local:   http://localhost:%d/", port))
	if lanIP := getLocalIP(); lanIP != "" && cfg.Server.Host != "127.0.0.1" && cfg.Server.Host != "localhost" {
		logger.Info(fmt.Sprintf("  Network: http://%s:%d/", lanIP, port))
	}

	srv.WaitForShutdown(cmd.Context())

	logger.Info("DocTest preview server stopped")
	return nil
}

// getLocalIP returns the first non-loopback IPv4 address
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
