package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/iocontext"
	"github.com/tixte/tixte-cli/internal/outfmt"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"acc"},
		Short:   "Manage account configuration and settings",
	}

	cmd.AddCommand(newAccountConfigCmd())
	cmd.AddCommand(newAccountSettingsCmd())
	cmd.AddCommand(newAccountUploadKeyCmd())
	cmd.AddCommand(newAccountDataRequestCmd())
	cmd.AddCommand(newAccountBillingCmd())
	cmd.AddCommand(newAccountAppsCmd())

	return cmd
}

func newAccountConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit the upload page config",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return runAccountConfigGet(cmd)
		}),
	}

	cmd.AddCommand(newAccountConfigGetCmd())
	cmd.AddCommand(newAccountConfigSetCmd())

	return cmd
}

func newAccountConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the upload page config",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return runAccountConfigGet(cmd)
		}),
	}
}

func runAccountConfigGet(cmd *cobra.Command) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	cfg, err := client.Account().Config(cmdContext(cmd))
	if err != nil {
		return err
	}

	if isJSON(cmd) {
		return printJSON(cmd, cfg)
	}

	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()
	_, _ = fmt.Fprintf(w, "Hide branding:\t%t\n", cfg.HideBranding)
	_, _ = fmt.Fprintf(w, "Base redirect:\t%t\n", cfg.BaseRedirect)
	if cfg.Embed.Title != "" {
		_, _ = fmt.Fprintf(w, "Embed title:\t%s\n", cfg.Embed.Title)
	}
	if cfg.Embed.Description != "" {
		_, _ = fmt.Fprintf(w, "Embed description:\t%s\n", cfg.Embed.Description)
	}
	if cfg.Embed.AuthorName != "" {
		_, _ = fmt.Fprintf(w, "Embed author:\t%s\n", cfg.Embed.AuthorName)
	}
	if cfg.Embed.ThemeColor != "" {
		_, _ = fmt.Fprintf(w, "Theme color:\t%s\n", cfg.Embed.ThemeColor)
	}
	if cfg.CustomCSS != "" {
		_, _ = fmt.Fprintf(w, "Custom CSS:\t%d bytes\n", len(cfg.CustomCSS))
	}
	return nil
}

func newAccountConfigSetCmd() *cobra.Command {
	var (
		title        string
		description  string
		authorName   string
		authorURL    string
		providerName string
		providerURL  string
		themeColor   string
		customCSS    string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the upload page config",
		Long:  "Update embed appearance and custom CSS. Only the flags you pass are changed; pass an empty value to clear a field.",
		Example: strings.TrimSpace(`
  # Set the embed title and color
  tixte account config set --title "My Files" --theme-color "#5865f2"

  # Clear the embed description
  tixte account config set --description ""
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			update := api.ConfigUpdate{}
			set := func(flag string, dst **string, value string) {
				if cmd.Flags().Changed(flag) {
					v := value
					*dst = &v
				}
			}
			set("title", &update.Title, title)
			set("description", &update.Description, description)
			set("author-name", &update.AuthorName, authorName)
			set("author-url", &update.AuthorURL, authorURL)
			set("provider-name", &update.ProviderName, providerName)
			set("provider-url", &update.ProviderURL, providerURL)
			set("theme-color", &update.ThemeColor, themeColor)
			set("custom-css", &update.CustomCSS, customCSS)

			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Account().UpdateConfig(cmdContext(cmd), update); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"updated": true})
			}
			printAction(cmd, "Updated", "config", nil, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "Embed title")
	cmd.Flags().StringVar(&description, "description", "", "Embed description")
	cmd.Flags().StringVar(&authorName, "author-name", "", "Embed author name")
	cmd.Flags().StringVar(&authorURL, "author-url", "", "Embed author URL")
	cmd.Flags().StringVar(&providerName, "provider-name", "", "Embed provider name")
	cmd.Flags().StringVar(&providerURL, "provider-url", "", "Embed provider URL")
	cmd.Flags().StringVar(&themeColor, "theme-color", "", "Embed theme color (hex)")
	cmd.Flags().StringVar(&customCSS, "custom-css", "", "Custom CSS for the upload page")

	return cmd
}

func newAccountSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or edit account settings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return runAccountSettingsGet(cmd)
		}),
	}

	cmd.AddCommand(newAccountSettingsGetCmd())
	cmd.AddCommand(newAccountSettingsSetCmd())

	return cmd
}

func newAccountSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show account settings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			return runAccountSettingsGet(cmd)
		}),
	}
}

func runAccountSettingsGet(cmd *cobra.Command) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	settings, err := client.Account().Settings(cmdContext(cmd))
	if err != nil {
		return err
	}

	if isJSON(cmd) {
		return printJSON(cmd, settings)
	}

	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()
	_, _ = fmt.Fprintf(w, "Promotional emails:\t%t\n", settings.Emails.Promotional)
	_, _ = fmt.Fprintf(w, "Shared file emails:\t%t\n", settings.Emails.SharedFile)
	_, _ = fmt.Fprintf(w, "New login emails:\t%t\n", settings.Emails.NewLogin)
	_, _ = fmt.Fprintf(w, "Addable:\t%t\n", settings.Privacy.Addable)
	_, _ = fmt.Fprintf(w, "Shareable:\t%d\n", settings.Privacy.Shareable)
	return nil
}

func newAccountSettingsSetCmd() *cobra.Command {
	var (
		promotional bool
		sharedFile  bool
		newLogin    bool
		addable     bool
		shareable   int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update account settings",
		Long:  "Update notification and privacy settings. Only the flags you pass are changed.",
		Example: strings.TrimSpace(`
  # Turn off promotional emails
  tixte account settings set --promotional-emails=false

  # Allow other users to add you
  tixte account settings set --addable=true
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			update := api.SettingsUpdate{}
			if cmd.Flags().Changed("promotional-emails") {
				update.PromotionalEmails = &promotional
			}
			if cmd.Flags().Changed("shared-file-emails") {
				update.SharedFileEmails = &sharedFile
			}
			if cmd.Flags().Changed("new-login-emails") {
				update.NewLoginEmails = &newLogin
			}
			if cmd.Flags().Changed("addable") {
				update.Addable = &addable
			}
			if cmd.Flags().Changed("shareable") {
				update.Shareable = &shareable
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Account().UpdateSettings(cmdContext(cmd), update); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"updated": true})
			}
			printAction(cmd, "Updated", "settings", nil, "")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&promotional, "promotional-emails", false, "Receive promotional emails")
	cmd.Flags().BoolVar(&sharedFile, "shared-file-emails", false, "Receive emails when files are shared with you")
	cmd.Flags().BoolVar(&newLogin, "new-login-emails", false, "Receive emails on new logins")
	cmd.Flags().BoolVar(&addable, "addable", false, "Allow other users to add you")
	cmd.Flags().IntVar(&shareable, "shareable", 0, "Who can share files with you")

	return cmd
}

func newAccountUploadKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-key",
		Short: "Show the account's upload API key",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			key, err := client.Account().UploadKey(cmdContext(cmd))
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, key)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), key.APIKey)
			return nil
		}),
	}
}

func newAccountDataRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "data-request",
		Short: "Request an export of your account data",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Account().RequestData(cmdContext(cmd)); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"requested": true})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Data export requested. You'll receive an email when it's ready.")
			return nil
		}),
	}
}

func newAccountBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Billing and subscription info",
	}

	cmd.AddCommand(newRawJSONCmd("subscriptions", "List subscriptions", func(cmd *cobra.Command, client *api.Client) (json.RawMessage, error) {
		return client.Account().Subscriptions(cmdContext(cmd))
	}))
	cmd.AddCommand(newRawJSONCmd("payment-methods", "List payment methods", func(cmd *cobra.Command, client *api.Client) (json.RawMessage, error) {
		return client.Account().PaymentMethods(cmdContext(cmd))
	}))
	cmd.AddCommand(newRawJSONCmd("transactions", "List transactions", func(cmd *cobra.Command, client *api.Client) (json.RawMessage, error) {
		return client.Account().Transactions(cmdContext(cmd))
	}))

	return cmd
}

func newAccountAppsCmd() *cobra.Command {
	return newRawJSONCmd("apps", "List developer applications", func(cmd *cobra.Command, client *api.Client) (json.RawMessage, error) {
		return client.Account().DeveloperApplications(cmdContext(cmd))
	})
}

// newRawJSONCmd builds a command around an endpoint whose payload shape is
// not pinned down; the raw JSON goes through the normal query/template
// pipeline.
func newRawJSONCmd(use, short string, fetch func(*cobra.Command, *api.Client) (json.RawMessage, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			raw, err := fetch(cmd, client)
			if err != nil {
				return err
			}

			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("unexpected response format: %w", err)
			}

			if isJSON(cmd) || outfmt.IsJSONL(cmd.Context()) {
				return printJSON(cmd, v)
			}
			ioStreams := iocontext.GetIO(cmd.Context())
			return outfmt.WriteJSON(ioStreams.Out, v)
		}),
	}
}
