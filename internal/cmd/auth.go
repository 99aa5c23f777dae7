package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/auth"
	"github.com/tixte/tixte-cli/internal/config"
	"github.com/tixte/tixte-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage authentication credentials",
		Long:    "Configure and manage Tixte API credentials stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthSwitchCmd())

	return cmd
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		key      string
		domain   string
		profile  string
		envFile  string
		noVerify bool
		web      bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API key to the OS keychain",
		Long: strings.TrimSpace(`
Save Tixte API credentials securely to your OS keychain.

You'll need:
- API Key: Generate from the Tixte dashboard under Settings > API
- Domain: Your upload domain (e.g. files.tixte.co), optional

The key is verified against the API before saving unless --no-verify is set.
`),
		Example: strings.TrimSpace(`
  # Login with flags
  tixte auth login --key YOUR_API_KEY --domain files.tixte.co

  # Save to a named profile
  tixte auth login --key YOUR_API_KEY --profile work

  # Load credentials from a .env file
  tixte auth login --env-file .env
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if web {
				return runAuthLoginWeb(cmd, profile)
			}

			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				applyAuthEnvFileRuntimeVars(envVars)

				if key == "" {
					key = strings.TrimSpace(envVars["TIXTE_API_KEY"])
				}
				if domain == "" {
					domain = strings.TrimSpace(envVars["TIXTE_DOMAIN"])
				}
				if !cmd.Flags().Changed("profile") {
					if envProfile := strings.TrimSpace(envVars["TIXTE_PROFILE"]); envProfile != "" {
						profile = envProfile
					}
				}
			}

			if key == "" {
				return fmt.Errorf("--key is required (or provide TIXTE_API_KEY via --env-file)")
			}
			key = strings.TrimSpace(key)
			if err := validation.ValidateAPIKey(key); err != nil {
				return err
			}
			if domain != "" {
				if err := validation.ValidateDomainName(domain); err != nil {
					return err
				}
			}

			account := config.Account{
				APIKey: key,
				Domain: domain,
			}

			if !noVerify {
				// Honor a base URL override so self-hosted mirrors can verify too.
				baseURL := strings.TrimSuffix(strings.TrimSpace(os.Getenv("TIXTE_BASE_URL")), "/")
				client := newClientFactory().newClient(config.ClientConfig{APIKey: key, Domain: domain, BaseURL: baseURL})
				me, err := client.Users().Me(cmdContext(cmd))
				if err != nil {
					return fmt.Errorf("API key verification failed: %w", err)
				}
				printIfNotQuiet(cmd, "Authenticated as %s\n", me.Username)
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved successfully!")
			if domain != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Domain: %s\n", domain)
			}
			if profile != "" && profile != "default" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Profile: %s\n", profile)
			}

			return nil
		}),
	}

	cmd.Flags().StringVar(&key, "key", "", "Tixte API key")
	cmd.Flags().StringVar(&domain, "domain", "", "Default upload domain (e.g. files.tixte.co)")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to save credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load TIXTE_* values from a .env file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip verifying the key against the API")
	cmd.Flags().BoolVar(&web, "web", false, "Enter credentials through a local browser page")
	flagAlias(cmd.Flags(), "key", "k")
	flagAlias(cmd.Flags(), "domain", "dom")
	flagAlias(cmd.Flags(), "profile", "pf")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

// runAuthLoginWeb runs the browser-based setup flow on a local server.
func runAuthLoginWeb(cmd *cobra.Command, profile string) error {
	server, err := auth.NewSetupServer(profile)
	if err != nil {
		return err
	}

	result, err := server.Start(cmdContext(cmd))
	if err != nil {
		return err
	}
	if result.Error != nil {
		return result.Error
	}

	printIfNotQuiet(cmd, "Authenticated as %s\n", result.Username)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved successfully!")
	if result.Account.Domain != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Domain: %s\n", result.Account.Domain)
	}
	return nil
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}

	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}

	return envVars, nil
}

// applyAuthEnvFileRuntimeVars copies keyring/runtime settings from --env-file
// into process environment when they are not already exported.
func applyAuthEnvFileRuntimeVars(envVars map[string]string) {
	keys := []string{
		"TIXTE_KEYRING_BACKEND",
		"TIXTE_KEYRING_PASSWORD",
		"TIXTE_CREDENTIALS_DIR",
	}

	for _, key := range keys {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		value := strings.TrimSpace(envVars[key])
		if value == "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current authentication configuration",
		Long:  "Display the currently saved authentication configuration (API key is masked for security).",
		Example: strings.TrimSpace(`
  # Check authentication status
  tixte auth status

  # JSON output for scripting
  tixte auth status --json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := strings.TrimSpace(os.Getenv("TIXTE_API_KEY")) != ""

			account, err := config.LoadAccount()
			if err != nil {
				if err == config.ErrNotConfigured {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'tixte auth login' to configure credentials.",
						})
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not authenticated.")
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'tixte auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			var profile string
			if !usingEnv {
				profile = currentProfileName()
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"api_key":       maskKey(account.APIKey),
					"source":        map[bool]string{true: "env", false: "keychain"}[usingEnv],
				}
				if account.Domain != "" {
					payload["domain"] = account.Domain
				}
				if account.BaseURL != "" {
					payload["base_url"] = account.BaseURL
				}
				if profile != "" {
					payload["profile"] = profile
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Authenticated")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  API Key: %s\n", maskKey(account.APIKey))
			if account.Domain != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Domain: %s\n", account.Domain)
			}
			if account.BaseURL != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Base URL: %s\n", account.BaseURL)
			}
			if profile != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Profile: %s\n", profile)
			}
			if usingEnv {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  Source: env")
			}

			return nil
		}),
	}

	return cmd
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from keychain",
		Long:  "Delete the stored authentication credentials from your OS keychain.",
		Example: strings.TrimSpace(`
  # Remove stored credentials
  tixte auth logout
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if profile == "" {
				current, err := config.CurrentProfile()
				if err == nil {
					profile = current
				}
			}

			if profile == "" && !config.HasAccount() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No credentials found.")
				return nil
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			if profile == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed successfully.")
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed successfully.\n", profile)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to remove (defaults to current)")
	flagAlias(cmd.Flags(), "profile", "pf")

	return cmd
}

// newAuthSwitchCmd creates the auth switch command
func newAuthSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch [profile]",
		Short: "Switch the active credential profile",
		Example: strings.TrimSpace(`
  # List profiles
  tixte auth switch

  # Switch to a profile
  tixte auth switch work
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				profiles, err := config.ListProfiles()
				if err != nil {
					return fmt.Errorf("failed to list profiles: %w", err)
				}
				if len(profiles) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No profiles saved. Run 'tixte auth login' first.")
					return nil
				}
				current, _ := config.CurrentProfile()
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{
						"profiles": profiles,
						"current":  current,
					})
				}
				for _, p := range profiles {
					marker := "  "
					if p == current {
						marker = "* "
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, p)
				}
				return nil
			}

			profile := args[0]
			if _, err := config.LoadProfile(profile); err != nil {
				return fmt.Errorf("profile %q not found: %w", profile, err)
			}
			if err := config.SetCurrentProfile(profile); err != nil {
				return fmt.Errorf("failed to switch profile: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %s.\n", profile)
			return nil
		}),
	}

	return cmd
}
