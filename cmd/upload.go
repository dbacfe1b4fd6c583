package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"autotube/internal/app"
	"autotube/pkg/config"

	"github.com/spf13/cobra"
)

var (
	uploadPrivacy  string
	uploadCategory string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [video]",
	Short: "Upload a video with generated metadata",
	Long: `Authenticate with YouTube, generate a title, description and tags for the
video and upload it. The video path falls back to VIDEO_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadPrivacy, "privacy", "", "Privacy status: public, private or unlisted")
	uploadCmd.Flags().StringVar(&uploadCategory, "category", "", "Numeric YouTube category id")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if uploadPrivacy != "" {
		cfg.YouTube.PrivacyStatus = uploadPrivacy
	}
	if uploadCategory != "" {
		cfg.YouTube.CategoryID = uploadCategory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	videoPath := cfg.VideoPath
	if len(args) > 0 {
		videoPath = args[0]
	}
	if videoPath == "" {
		return errors.New("no video given: pass a path or set VIDEO_PATH")
	}

	result, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	slog.Info("Starting upload", "video", videoPath, "privacy", cfg.YouTube.PrivacyStatus)

	outcome, res := app.NewPipeline(result.Service).Run(ctx, videoPath)
	if outcome != app.OutcomeUploaded {
		return &ExitError{
			Code: outcomeExitCode(outcome),
			Err:  fmt.Errorf("upload aborted: %s", outcome),
		}
	}

	fmt.Println(successStyle.Render("✓ Uploaded: " + res.URL))
	return nil
}
