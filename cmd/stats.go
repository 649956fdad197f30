package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's attendance summary",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	closeStore, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	store, err := database.GetStore(ctx)
	if err != nil {
		return err
	}
	today := database.Today(time.Now(), cfg.Attendance.Location)
	summary, err := database.Summarize(ctx, store, store, today)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Attendance for %s\n", today)
	fmt.Printf("  Enrolled: %d\n", summary.TotalEnrolled)
	fmt.Printf("  Present:  %d\n", summary.TodayPresent)
	fmt.Printf("  Absent:   %d\n", summary.TodayAbsent)
	if len(summary.AbsentUsers) > 0 {
		fmt.Printf("\nAbsent: %s\n", strings.Join(summary.AbsentUsers, ", "))
	}
	return nil
}
