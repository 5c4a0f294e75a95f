package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msto63/lavoisier/internal/lavoisier/server"
	"github.com/msto63/lavoisier/pkg/core/config"
	"github.com/msto63/lavoisier/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	serveHost     string
	serveGRPCPort int
	serveHTTPPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the balancing service over gRPC, HTTP and WebSocket",
	Long: `Run the Lavoisier server.

  gRPC       lavoisier.v1.Balancer           (default :9310)
  HTTP       /api/v1/balance, /api/v1/parse,  (default :8310)
             /api/v1/tokens, /api/v1/examples,
             /api/v1/history, /health, /version
  WebSocket  /api/v1/balance/ws

Flags override the [server] section of the configuration.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP port")
	rootCmd.AddCommand(serveCmd)
}

// serverConfig maps the [server] section and the serve flags
func serverConfig(cfg *config.Config) server.Config {
	sc := server.Config{
		Host:         cfg.Server.Host,
		GRPCPort:     cfg.Server.GRPCPort,
		HTTPPort:     cfg.Server.HTTPPort,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}
	if cfg.Server.CORS.Enabled {
		sc.AllowedOrigins = cfg.Server.CORS.AllowedOrigins
	}
	if serveHost != "" {
		sc.Host = serveHost
	}
	if serveGRPCPort != 0 {
		sc.GRPCPort = serveGRPCPort
	}
	if serveHTTPPort != 0 {
		sc.HTTPPort = serveHTTPPort
	}
	return sc
}

func runServe(cmd *cobra.Command, args []string) error {
	if remote != "" {
		return fmt.Errorf("serve cannot be combined with --remote")
	}

	svc, err := buildService(appConfig)
	if err != nil {
		return err
	}
	srv, err := server.New(serverConfig(appConfig), svc)
	if err != nil {
		svc.Close()
		return err
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headColor.Sprintf("Lavoisier %s", version.Application))
	fmt.Fprintf(w, "gRPC:   %s\n", srv.GRPCAddress())
	fmt.Fprintf(w, "HTTP:   http://%s/api/v1\n", srv.HTTPAddress())
	fmt.Fprintf(w, "Health: http://%s/health\n", srv.HTTPAddress())

	// Wait for signal or error
	select {
	case <-sigCh:
		fmt.Fprintln(w, "\nStopping...")
	case err := <-errCh:
		if err != nil {
			svc.Close()
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return err
	}
	return <-errCh
}
