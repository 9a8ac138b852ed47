package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipcast/internal/storage"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Clipcast",
	Long:  `Configure the API key, storage backend, and listen address, and write them to .env.`,
	RunE:  runSetupWizard,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetupWizard(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("Clipcast Setup"))

	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var apiKey, bucket, addr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("Clients must send this in X-API-Key (or sm://<secret-version> to load from Secret Manager)").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("API key")),
			huh.NewInput().
				Title("GCS bucket").
				Description("Leave empty to serve from a local directory instead").
				Value(&bucket),
			huh.NewInput().
				Title("Listen address").
				Placeholder(":8080").
				Value(&addr),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	bucket = strings.TrimSpace(bucket)
	if bucket != "" {
		if err := checkBucketAccess(bucket); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Bucket check failed: %v", err)))
			fmt.Println(infoStyle.Render("Saved anyway — verify credentials before running serve"))
		}
	}

	env := map[string]string{
		"CLIPCAST_API_KEY": strings.TrimSpace(apiKey),
		"GCS_BUCKET":       bucket,
		"CLIPCAST_ADDR":    strings.TrimSpace(addr),
	}
	return writeEnvFile(env)
}

func checkBucketAccess(bucket string) error {
	var err error
	_ = spinner.New().
		Title("Checking bucket access").
		Action(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			var gcs *storage.GCS
			gcs, err = storage.NewGCS(ctx, bucket)
			if err != nil {
				return
			}
			defer func() { _ = gcs.Close() }()
			_, err = gcs.List(ctx, "")
		}).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Bucket reachable"))
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{"CLIPCAST_API_KEY", "GCS_BUCKET", "CLIPCAST_ADDR"}
	for _, key := range order {
		if val := env[key]; val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Review config.yaml for platform defaults")
	fmt.Println("  2. Run: clipcast serve")
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
