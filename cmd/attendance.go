package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Print attendance records",
	Long: `Print attendance records from the store.

Use --date YYYY-MM-DD to show a single day, or --today for the current day
in ATTENDANCE_TIMEZONE.`,
	Args: cobra.NoArgs,
	RunE: runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("date", "", "Only show records of this date (YYYY-MM-DD)")
	attendanceCmd.Flags().Bool("today", false, "Only show today's records")
	attendanceCmd.Flags().Bool("json", false, "Output as JSON")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	date := mustGetString(cmd, "date")
	today := mustGetBool(cmd, "today")
	jsonOutput := mustGetBool(cmd, "json")

	if date != "" {
		if _, err := time.Parse(constants.DateLayout, date); err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if today {
		date = database.Today(time.Now(), cfg.Attendance.Location)
	}

	ctx := context.Background()
	closeStore, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reader, err := database.GetAttendanceReader(ctx)
	if err != nil {
		return err
	}
	records, err := reader.GetAttendanceRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read attendance: %w", err)
	}
	if date != "" {
		records = database.FilterByDate(records, date)
	}

	if jsonOutput {
		if records == nil {
			records = []database.AttendanceRecord{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"records": records})
	}

	if len(records) == 0 {
		fmt.Println("No attendance records found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDATE\tTIME\tSTATUS")
	fmt.Fprintln(w, "----\t----\t----\t------")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Date, r.Time, r.Status)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d records\n", len(records))
	return nil
}
