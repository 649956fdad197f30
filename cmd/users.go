package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/config"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List enrolled users",
	Long:  `List the users known to the face model, in enrollment order.`,
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().Bool("json", false, "Output as JSON")
}

func runUsers(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	cfg := config.Load()

	// The registry alone answers this; no need to load OpenCV.
	registry, err := face.LoadRegistry(cfg.Face.LabelsPath)
	if err != nil {
		return err
	}
	names := registry.Names()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"users": names, "count": len(names)})
	}

	if len(names) == 0 {
		fmt.Println("No users enrolled.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\nTotal: %d users\n", len(names))
	return nil
}
