package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weijiet/xmum-booker/config"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively save credentials for future runs",
	Long: `First-time setup: collects your campus ID, password and Gemini API key
and saves them to ~/.xmum-booker/config.yaml, readable only by you.

Environment variables (XMUM_USERNAME, XMUM_PASSWORD, XMUM_GEMINI_KEY) always
take precedence over the saved file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := filepath.Join(config.DefaultDir(), "config.yaml")

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("XMUM Booker - First-time Setup")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Credentials will be saved to %s\n", path)
	fmt.Println("(readable only by you, never uploaded anywhere)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	username, err := prompt(scanner, "Campus ID: ")
	if err != nil {
		return err
	}
	password, err := prompt(scanner, "Password: ")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password cannot be empty")
	}

	geminiKey, err := prompt(scanner, "Gemini API Key (https://aistudio.google.com/apikey): ")
	if err != nil {
		return err
	}
	if geminiKey == "" {
		return fmt.Errorf("a Gemini API key is required for captcha recognition")
	}

	cfg := &config.Config{}
	cfg.Portal.URL = "https://eservices.xmu.edu.my"
	cfg.Portal.Username = username
	cfg.Portal.Password = password
	cfg.Captcha.GeminiAPIKey = geminiKey
	cfg.Captcha.Model = "gemini-flash-latest"
	cfg.Booking.Room = "group"
	cfg.Logging = config.LoggingConfig{Level: "info", Format: "console", Color: true}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("\n✓ Saved to %s\n", path)
	fmt.Println("\nSetup complete! You can now run:")
	fmt.Println("  xmum-booker book")
	return nil
}

func prompt(scanner *bufio.Scanner, label string) (string, error) {
	fmt.Print(label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
