package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/cache"
)

// CompletionItem represents an autocomplete suggestion
type CompletionItem struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

func outputCompletionItems(cmd *cobra.Command, items []CompletionItem) error {
	if isJSON(cmd) {
		return printJSON(cmd, items)
	}

	w := newTabWriterFromCmd(cmd)
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", item.Value, item.Label, item.Description)
	}
	return w.Flush()
}

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Get autocomplete values for references",
		Long:  "Retrieve valid values for command arguments and flags (domains, upload names, access levels), sharing the list cache with the corresponding list commands",
	}

	cmd.AddCommand(newCompletionsDomainsCmd())
	cmd.AddCommand(newCompletionsUploadsCmd())
	cmd.AddCommand(newCompletionsLevelsCmd())

	return cmd
}

func newCompletionsDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List valid upload domain names",
		Long:  "List the account's upload domains for autocomplete",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			store := cache.NewStore("domains", client.BaseURL, currentProfileName())
			var domains []api.Domain
			if !store.Get(&domains) {
				domains, err = client.Domains().List(cmdContext(cmd))
				if err != nil {
					return fmt.Errorf("failed to list domains: %w", err)
				}
				store.Put(domains)
			}

			items := make([]CompletionItem, len(domains))
			for i, d := range domains {
				items[i] = CompletionItem{
					Value:       d.Name,
					Label:       d.Name,
					Description: strconv.Itoa(d.Uploads) + " uploads",
				}
			}
			return outputCompletionItems(cmd, items)
		}),
	}
}

func newCompletionsUploadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uploads",
		Short: "List valid upload asset IDs with file names",
		Long:  "List the account's uploads with asset IDs and file names for autocomplete",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			store := cache.NewStore("uploads", client.BaseURL, currentProfileName())
			var uploads []api.Upload
			if !store.Get(&uploads) {
				list, err := client.Uploads().List(cmdContext(cmd))
				if err != nil {
					return fmt.Errorf("failed to list uploads: %w", err)
				}
				uploads = list.Uploads
				store.Put(uploads)
			}

			items := make([]CompletionItem, len(uploads))
			for i, u := range uploads {
				items[i] = CompletionItem{
					Value:       u.ID,
					Label:       u.Filename(),
					Description: u.Domain,
				}
			}
			return outputCompletionItems(cmd, items)
		}),
	}
}

func newCompletionsLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List valid share access levels",
		Long:  "List the access level values accepted by --level (static values, no API call)",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			items := []CompletionItem{
				{Value: "viewer", Label: "Viewer", Description: "Can view the upload"},
				{Value: "manager", Label: "Manager", Description: "Can edit and re-share the upload"},
				{Value: "owner", Label: "Owner", Description: "Full control, including deletion"},
			}
			return outputCompletionItems(cmd, items)
		}),
	}
}
