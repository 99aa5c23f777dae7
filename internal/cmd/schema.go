package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/iocontext"
	"github.com/tixte/tixte-cli/internal/outfmt"
	"github.com/tixte/tixte-cli/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [resource]",
		Short: "Show field structures for API resources",
		Long: strings.TrimSpace(`
Show the field structure of an API resource as a JSON schema.

Without an argument, lists the available resources. Useful for
building --query and --template expressions without consulting the
API docs.
`),
		Example: strings.TrimSpace(`
  # List available resources
  tixte schema

  # Inspect the upload resource
  tixte schema upload

  # Pull out just the property names
  tixte schema upload -q '.properties | keys'
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				names := schema.Names()
				if isJSON(cmd) {
					return printJSON(cmd, map[string]any{"resources": names})
				}
				out := cmd.OutOrStdout()
				for _, name := range names {
					_, _ = fmt.Fprintln(out, name)
				}
				return nil
			}

			name := strings.ToLower(strings.TrimSpace(args[0]))
			s, err := schema.Lookup(name)
			if err != nil {
				return fmt.Errorf("%w (run 'tixte schema' to list resources)", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, s)
			}
			ioStreams := iocontext.GetIO(cmd.Context())
			return outfmt.WriteJSON(ioStreams.Out, s)
		}),
	}
}
