package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Approval HTTP API.
The API serves enrollment, entry approval, the attendance dashboard and
the enrolled user list to the web client.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT, default 8000)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST, default 0.0.0.0)")
}

// applyServeFlags lets explicit flags override the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closeStore, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	faces, closeFaces, err := initFaceService(cfg)
	if err != nil {
		return err
	}
	defer closeFaces()
	logrus.WithField("enrolled_users", faces.EnrolledCount()).Info("Face service ready")

	server := web.NewServer(cfg, faces)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		if err := faces.Save(); err != nil {
			logrus.WithError(err).Warn("Failed to save face model")
		} else {
			logrus.Info("Face model saved to disk")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Error during shutdown")
		}
	}()

	fmt.Printf("Starting Face Approval API on http://%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
