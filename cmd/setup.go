package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"autotube/internal/credential"
	"autotube/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const envFilePath = ".env"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var envOrder = []string{
	"GOOGLE_CLOUD_PROJECT",
	"GROQ_API_KEY",
	"YOUTUBE_CLIENT_SECRET_FILE",
	"YOUTUBE_CLIENT_ID",
	"YOUTUBE_CLIENT_SECRET",
	"YOUTUBE_TOKEN_PATH",
	"YOUTUBE_TOKEN_BUCKET",
	"VIDEO_PATH",
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Autotube",
	Long:  `Configure the OAuth client, API keys and credential storage for Autotube.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Autotube Setup"))

	written, err := configureEnv()
	if err != nil {
		return fmt.Errorf("configuring environment: %w", err)
	}
	if written {
		offerAuthentication(cmd)
	}

	printNextSteps()
	return nil
}

func configureEnv() (bool, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return false, err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return false, nil
		}
	}

	env := make(map[string]string)

	if err := configureGCP(env); err != nil {
		return false, err
	}

	if err := configureYouTubeClient(env); err != nil {
		return false, err
	}

	if err := configureRequiredKeys(env); err != nil {
		return false, err
	}

	if err := writeEnvFile(envFilePath, env); err != nil {
		return false, err
	}
	fmt.Println(successStyle.Render("✓ Created .env file"))
	return true, nil
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("Needed for sm:// secrets and storing the credential in Cloud Storage").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - install from https://cloud.google.com/sdk/docs/install"))
		return nil
	}

	project, err := getGCPProject()
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("GCP setup skipped: %v", err)))
		return nil
	}
	env["GOOGLE_CLOUD_PROJECT"] = project

	if err := enableGCPAPIs(project); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}

	var bucket string
	if err := huh.NewInput().
		Title("Credential bucket (optional)").
		Description("Store the YouTube credential in this Cloud Storage bucket instead of a local file").
		Value(&bucket).
		Run(); err != nil {
		return err
	}
	if bucket = strings.TrimSpace(bucket); bucket != "" {
		env["YOUTUBE_TOKEN_BUCKET"] = bucket
	}

	return nil
}

func getGCPProject() (string, error) {
	existing := getActiveProject()

	var choice string
	options := []huh.Option[string]{
		huh.NewOption("Enter project ID manually", "manual"),
	}
	if existing != "" {
		options = append([]huh.Option[string]{
			huh.NewOption(fmt.Sprintf("Use current: %s", existing), existing),
		}, options...)
	}

	if err := huh.NewSelect[string]().
		Title("Google Cloud Project").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return "", err
	}

	if choice != "manual" {
		return choice, nil
	}

	var projectID string
	if err := huh.NewInput().
		Title("Project ID").
		Value(&projectID).
		Validate(required("Project ID")).
		Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(projectID), nil
}

func getActiveProject() string {
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"youtube.googleapis.com",
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

func configureYouTubeClient(env map[string]string) error {
	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Download the JSON file, or copy the Client ID and Client Secret
`))

	var source string
	if err := huh.NewSelect[string]().
		Title("YouTube OAuth client").
		Options(
			huh.NewOption("Client secret JSON file", "file"),
			huh.NewOption("Client ID and secret", "pair"),
		).
		Value(&source).
		Run(); err != nil {
		return err
	}

	if source == "file" {
		var path string
		if err := huh.NewInput().
			Title("Client secret file").
			Placeholder("client_secret.json").
			Value(&path).
			Validate(required("Client secret file")).
			Run(); err != nil {
			return err
		}
		path = strings.TrimSpace(path)

		err := runWithSpinner("Verifying client secret file", func() error {
			_, err := credential.OAuthConfig(path, "", "", "")
			return err
		})
		if err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Client secret file unusable: %v", err)))
		}
		env["YOUTUBE_CLIENT_SECRET_FILE"] = path
		return nil
	}

	var clientID, clientSecret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&clientID).
				Validate(required("Client ID")),
			huh.NewInput().
				Title("YouTube Client Secret").
				Description("Plain value or sm://<secret-name>").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret).
				Validate(required("Client Secret")),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	env["YOUTUBE_CLIENT_ID"] = strings.TrimSpace(clientID)
	env["YOUTUBE_CLIENT_SECRET"] = strings.TrimSpace(clientSecret)
	return nil
}

func configureRequiredKeys(env map[string]string) error {
	var groqKey string

	if err := huh.NewInput().
		Title("GROQ API Key").
		Description("https://console.groq.com/keys (plain value or sm://<secret-name>)").
		EchoMode(huh.EchoModePassword).
		Value(&groqKey).
		Validate(required("GROQ API Key")).
		Run(); err != nil {
		return err
	}

	env["GROQ_API_KEY"] = strings.TrimSpace(groqKey)
	return nil
}

func offerAuthentication(cmd *cobra.Command) {
	var authenticate bool
	if err := huh.NewConfirm().
		Title("Authenticate with YouTube now?").
		Description("Opens browser to complete OAuth flow").
		Value(&authenticate).
		Run(); err != nil || !authenticate {
		return
	}

	cfg, err := config.Load(cmd.Context(), configPath)
	if err == nil {
		err = runYouTubeAuth(cmd, cfg)
	}
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("OAuth flow failed: %v", err)))
		fmt.Println(infoStyle.Render("You can retry later with: autotube auth youtube"))
	}
}

func writeEnvFile(path string, env map[string]string) error {
	return os.WriteFile(path, []byte(renderEnv(env)), 0600)
}

func renderEnv(env map[string]string) string {
	var b strings.Builder
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(&b, "%s=%s\n", key, val)
		}
	}
	return b.String()
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Check credentials: autotube auth status")
	fmt.Println("  2. Tune defaults (optional) in: config.yaml, prompts.yaml")
	fmt.Println("  3. Run: autotube upload path/to/video.mp4")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
