package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "face-approval",
	Short: "Face recognition entry approval and attendance tracking",
	Long: `Face Approval enrolls people from webcam frames or photos, recognizes
them at the entrance and records their attendance in a Google Sheets
spreadsheet (or PostgreSQL).

Run "face-approval serve" to start the HTTP API used by the web client.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		level, format := cfg.Log.Level, cfg.Log.Format
		if logLevel != "" {
			level = logLevel
		}
		if logFormat != "" {
			format = logFormat
		}
		logging.Setup(level, format, os.Stderr)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json); overrides LOG_FORMAT")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
