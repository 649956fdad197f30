package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Rebuild the face model from archived samples",
	Long: `Rebuild the face model from every face sample archived under UPLOAD_DIR.

Use this after deleting or replacing the model file, or to recover from a
model that no longer matches the label registry.`,
	Args: cobra.NoArgs,
	RunE: runRetrain,
}

func init() {
	rootCmd.AddCommand(retrainCmd)
}

func runRetrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	faces, closeFaces, err := initFaceService(cfg)
	if err != nil {
		return err
	}
	defer closeFaces()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var bar interface{ Set(int) error }
	count, err := faces.Retrain(ctx, func(done, total int) {
		if bar == nil {
			bar = newProgressBar(total, "Reading samples", "samples")
		}
		bar.Set(done)
	})
	if bar != nil {
		fmt.Println()
	}
	if err != nil {
		return fmt.Errorf("retraining: %w", err)
	}
	if count == 0 {
		fmt.Println("No archived samples found; model unchanged.")
		return nil
	}

	fmt.Printf("Model retrained from %d sample(s) for %d user(s).\n", count, faces.EnrolledCount())
	return nil
}
