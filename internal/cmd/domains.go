package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/cache"
	"github.com/tixte/tixte-cli/internal/dryrun"
	"github.com/tixte/tixte-cli/internal/validation"
)

func newDomainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"dom"},
		Short:   "Manage upload domains",
	}

	cmd.AddCommand(newDomainsListCmd())
	cmd.AddCommand(newDomainsCreateCmd())
	cmd.AddCommand(newDomainsDeleteCmd())

	return cmd
}

func newDomainsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your upload domains",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			domains, err := client.Domains().List(cmdContext(cmd))
			if err != nil {
				return err
			}

			store := cache.NewStore("domains", client.BaseURL, currentProfileName())
			store.Put(domains)

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"domains": domains})
			}

			if len(domains) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No domains found.")
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "DOMAIN\tUPLOADS")
			for _, d := range domains {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", d.Name, d.Uploads)
			}
			return nil
		}),
	}
}

func newDomainsCreateCmd() *cobra.Command {
	var custom bool

	cmd := &cobra.Command{
		Use:   "create <domain>",
		Short: "Register an upload domain",
		Long: strings.TrimSpace(`
Register a new upload domain.

Subdomains of Tixte-owned domains (e.g. yourname.tixte.co) are available on
every plan. Use --custom for a domain you own.
`),
		Example: strings.TrimSpace(`
  # Register a Tixte subdomain
  tixte domains create yourname.tixte.co

  # Register a custom domain
  tixte domains create cdn.example.com --custom
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain := strings.TrimSpace(args[0])
			if err := validation.ValidateDomainName(domain); err != nil {
				return err
			}

			if handled, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "create",
				Resource:  "domain " + domain,
				Details:   map[string]any{"custom": custom},
			}); handled {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			if err := client.Domains().Create(cmdContext(cmd), domain, custom); err != nil {
				return err
			}

			cache.NewStore("domains", client.BaseURL, currentProfileName()).Clear()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"domain": domain, "custom": custom})
			}
			printAction(cmd, "Created", "domain", domain, "")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&custom, "custom", false, "Register a domain you own instead of a Tixte subdomain")

	return cmd
}

func newDomainsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <domain>",
		Aliases: []string{"rm"},
		Short:   "Remove an upload domain",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			domain := strings.TrimSpace(args[0])
			if err := validation.ValidateDomainName(domain); err != nil {
				return err
			}

			if handled, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  "domain " + domain,
			}); handled {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				prompt: fmt.Sprintf("Remove domain %s?", domain),
				force:  force,
			})
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			resp, err := client.Domains().Delete(cmdContext(cmd), domain)
			if err != nil {
				return err
			}

			cache.NewStore("domains", client.BaseURL, currentProfileName()).Clear()

			if isJSON(cmd) {
				return printJSON(cmd, resp)
			}
			printAction(cmd, "Removed", "domain", domain, "")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
