package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/auth"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/ui"
)

// credentialProviders are the providers that accept stored credentials.
var credentialProviders = []string{"e621", "rule34"}

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
	Long: `Manage credentials for providers that need them.

e621 wants a descriptive User-Agent identifying you; rule34 needs an API
key from your account options page. Credentials are stored in the system
keychain, or read from E621_USER_AGENT, RULE34_USER_ID and RULE34_API_KEY
environment variables (a .env file works too).`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:       "login <provider>",
	Short:     "Store credentials for a provider in the system keychain",
	Example:   "  catgirl auth login rule34",
	Args:      cobra.ExactArgs(1),
	ValidArgs: credentialProviders,
	RunE:      runAuthLogin,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:       "logout <provider>",
	Short:     "Remove stored credentials for a provider",
	Args:      cobra.ExactArgs(1),
	ValidArgs: credentialProviders,
	RunE:      runAuthLogout,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which providers have credentials configured",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	provider := strings.ToLower(args[0])

	store, err := auth.NewKeyringStore()
	if err != nil {
		return fmt.Errorf("system keychain unavailable, use environment variables instead: %w", err)
	}

	creds := &auth.Credentials{Provider: provider}
	reader := bufio.NewReader(os.Stdin)

	switch provider {
	case "e621":
		fmt.Print("User-Agent (e.g. \"catgirl-cli/1.0 (by your_username)\"): ")
		userAgent, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		creds.UserAgent = strings.TrimSpace(userAgent)
		if creds.UserAgent == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
	case "rule34":
		fmt.Print("User ID: ")
		userID, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		creds.UserID = strings.TrimSpace(userID)

		fmt.Print("API key: ")
		apiKey, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		creds.APIKey = strings.TrimSpace(string(apiKey))

		if creds.UserID == "" || creds.APIKey == "" {
			return fmt.Errorf("both user ID and API key are required")
		}
	default:
		return fmt.Errorf("provider %q does not use stored credentials", provider)
	}

	if err := store.Save(creds); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Stored credentials for %s", provider))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	provider := strings.ToLower(args[0])

	store, err := auth.NewKeyringStore()
	if err != nil {
		return fmt.Errorf("system keychain unavailable: %w", err)
	}
	if err := store.Delete(provider); err != nil {
		if err == auth.ErrCredentialsNotFound {
			ui.PrintWarning(fmt.Sprintf("no stored credentials for %s", provider))
			return nil
		}
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Removed credentials for %s", provider))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	pairs := make([][2]string, 0, len(credentialProviders))
	for _, provider := range credentialProviders {
		status := "not configured"
		if _, err := credManager.Retrieve(provider); err == nil {
			status = "configured"
		}
		pairs = append(pairs, [2]string{provider, status})
	}
	fmt.Println(ui.SettingsTable(pairs))
	return nil
}
