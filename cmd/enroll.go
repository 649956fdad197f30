package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/SitanshuA091/FACE-Approval-App/internal/database"
	"github.com/SitanshuA091/FACE-Approval-App/internal/face"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name> <image> [image...]",
	Short: "Enroll a person from image files",
	Long: `Enroll a person from one or more photos on disk.

Every image is checked for a face and the largest one is added to the
model under the given name. One enrollment row is recorded when at least
one image was accepted. Use --no-record to skip the row.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Bool("no-record", false, "Do not record an enrollment row in the store")
}

// newProgressBar returns a bar in the style shared by the CLI commands.
func newProgressBar(total int, description, unit string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// enrollFiles enrolls every image under name and returns how many were accepted.
func enrollFiles(faces *face.Service, name string, paths []string) (int, []string) {
	bar := newProgressBar(len(paths), "Enrolling", "images")

	accepted := 0
	var failures []string
	for _, path := range paths {
		fileName := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", fileName, err))
			bar.Add(1)
			continue
		}

		ok, err := faces.Enroll(data, name)
		switch {
		case err != nil:
			failures = append(failures, fmt.Sprintf("%s: %v", fileName, err))
		case !ok:
			failures = append(failures, fmt.Sprintf("%s: no face detected", fileName))
		default:
			accepted++
		}
		bar.Add(1)
	}
	fmt.Println()
	return accepted, failures
}

func runEnroll(cmd *cobra.Command, args []string) error {
	name := face.NormalizeName(args[0])
	if name == "" {
		return errors.New("name is required")
	}
	noRecord := mustGetBool(cmd, "no-record")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if !noRecord {
		closeStore, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
	}

	faces, closeFaces, err := initFaceService(cfg)
	if err != nil {
		return err
	}
	defer closeFaces()

	accepted, failures := enrollFiles(faces, name, args[1:])
	for _, msg := range failures {
		fmt.Printf("Failed: %s\n", msg)
	}
	if accepted == 0 {
		return fmt.Errorf("no image of %s could be enrolled", name)
	}

	if !noRecord {
		writer, err := database.GetEnrollmentWriter(ctx)
		if err != nil {
			return err
		}
		if err := writer.AddEnrollment(ctx, name); err != nil {
			return fmt.Errorf("recording enrollment: %w", err)
		}
	}

	fmt.Printf("Enrolled %s from %d of %d image(s). %d user(s) enrolled.\n", name, accepted, len(args)-1, faces.EnrolledCount())
	return nil
}
