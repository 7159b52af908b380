package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weijiet/xmum-booker/captcha"
	"github.com/weijiet/xmum-booker/portal"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test portal login without booking anything",
	Long: `Run the full captcha-protected login flow once and report the result.
Useful for verifying credentials and the Gemini API key before relying on a
scheduled run.`,
	PreRunE: initializeApp,
	RunE:    runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("Testing login to %s...\n", portalClient.BaseURL())

	solver, err := captcha.NewGeminiSolver(ctx, cfg.Captcha.GeminiAPIKey, cfg.Captcha.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to create captcha solver: %w", err)
	}
	defer solver.Close()

	creds := portal.Credentials{
		Username: cfg.Portal.Username,
		Password: cfg.Portal.Password,
	}

	if err := portalClient.Login(ctx, creds, solver); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login successful!")

	token, err := portalClient.FetchCSRFToken(ctx)
	if err != nil {
		fmt.Printf("✗ CSRF token: %v\n", err)
		return nil
	}
	fmt.Printf("✓ CSRF token obtained (%d chars)\n", len(token))

	return nil
}
