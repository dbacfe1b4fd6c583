package cmd

import (
	"errors"
	"fmt"

	"autotube/internal/app"
	"autotube/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with external services",
	Long:  `Authenticate with YouTube or inspect credentials configured in .env`,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Run the YouTube consent flow in the browser and store the resulting credential.`,
	RunE:  runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status for all services",
	Long:  `Verify which services are configured and whether a stored credential is usable.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(authInfoStyle.Render("\nService Authentication Status:\n"))

	switch {
	case cfg.YouTubeClientSecretFile != "":
		fmt.Println(authSuccessStyle.Render("✓ OAuth client: " + cfg.YouTubeClientSecretFile))
	case cfg.HasOAuthClient():
		fmt.Println(authSuccessStyle.Render("✓ OAuth client: YOUTUBE_CLIENT_ID/YOUTUBE_CLIENT_SECRET"))
	default:
		fmt.Println(authErrorStyle.Render("✗ OAuth client: set YOUTUBE_CLIENT_SECRET_FILE or YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET"))
	}

	if cfg.HasOAuthClient() {
		printCredentialStatus(cmd, cfg)
	}

	if cfg.GroqAPIKey != "" {
		fmt.Println(authSuccessStyle.Render(fmt.Sprintf("✓ Groq: API key configured (model %s)", cfg.Groq.Model)))
	} else {
		fmt.Println(authErrorStyle.Render("✗ Groq: missing GROQ_API_KEY"))
	}

	if cfg.GCPProject != "" {
		fmt.Println(authSuccessStyle.Render("✓ Google Cloud: project " + cfg.GCPProject))
	} else {
		fmt.Println(authInfoStyle.Render("○ Google Cloud: not configured (optional)"))
	}

	fmt.Println()
	return nil
}

func printCredentialStatus(cmd *cobra.Command, cfg *config.Config) {
	creds, err := app.BuildCredentials(cmd.Context(), cfg)
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("✗ YouTube: %v", err)))
		return
	}
	defer func() { _ = creds.Close() }()

	st := creds.Manager.Status(cmd.Context())
	switch {
	case st.LoadError != nil:
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("✗ YouTube: unreadable credential at %s: %v", st.Location, st.LoadError)))
		fmt.Println(authInfoStyle.Render("  Run: autotube auth youtube"))
	case !st.Stored:
		fmt.Println(authErrorStyle.Render("✗ YouTube: client configured, but not authenticated"))
		fmt.Println(authInfoStyle.Render("  Run: autotube auth youtube"))
	case st.Valid:
		fmt.Println(authSuccessStyle.Render("✓ YouTube: authenticated (" + st.Location + ")"))
	case st.Renewable:
		fmt.Println(authSuccessStyle.Render("✓ YouTube: token expired, will refresh on next upload (" + st.Location + ")"))
	default:
		fmt.Println(authErrorStyle.Render("✗ YouTube: token expired and cannot be refreshed"))
		fmt.Println(authInfoStyle.Render("  Run: autotube auth youtube"))
	}
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOAuthClient() {
		return errors.New("YOUTUBE_CLIENT_SECRET_FILE or YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	return runYouTubeAuth(cmd, cfg)
}

func runYouTubeAuth(cmd *cobra.Command, cfg *config.Config) error {
	creds, err := app.BuildCredentials(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = creds.Close() }()

	if creds.Manager.Authorize(cmd.Context()) == nil {
		return &ExitError{Code: ExitNoCredential, Err: errors.New("YouTube authentication failed")}
	}

	fmt.Println(authSuccessStyle.Render("✓ YouTube authentication complete"))

	st := creds.Manager.Status(cmd.Context())
	if !st.Stored {
		fmt.Println(authErrorStyle.Render("  Credential could not be saved to: " + st.Location))
		return nil
	}
	fmt.Println(authSuccessStyle.Render("  Credential saved to: " + st.Location))
	return nil
}
