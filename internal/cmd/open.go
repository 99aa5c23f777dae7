package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/iocontext"
)

// uploadOpenURL picks the link to open for an upload. The public page is
// the default; --direct switches to the raw CDN link.
func uploadOpenURL(u *api.Upload, direct bool) (string, error) {
	if direct {
		if u.DirectURL == "" {
			return "", fmt.Errorf("upload %s has no direct URL", u.ID)
		}
		return u.DirectURL, nil
	}
	if url := u.PublicURL(); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("upload %s has no public URL", u.ID)
}

func newOpenCmd() *cobra.Command {
	var direct bool
	var printOnly bool

	cmd := &cobra.Command{
		Use:     "open <upload>",
		Aliases: []string{"o"},
		Short:   "Open an upload's link in the browser",
		Long: strings.TrimSpace(`
Open an upload's public page in the default browser.

The upload may be referenced by asset ID, by file name (fuzzy matched,
like every other upload command), or by a pasted upload link. With
--print, or when stdin is not a terminal, the URL is printed instead of
launched.
`),
		Example: strings.TrimSpace(`
  # Open by file name
  tixte open vacation-photo.png

  # Open the raw CDN link instead of the public page
  tixte open vacation-photo.png --direct

  # Print the URL without launching a browser
  tixte open abc123 --print
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			ctx := cmdContext(cmd)
			id, err := resolveUploadID(ctx, client, args[0])
			if err != nil {
				return err
			}
			upload, err := lookupUpload(ctx, client, id)
			if err != nil {
				return err
			}
			target, err := uploadOpenURL(upload, direct)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"asset_id": upload.ID,
					"name":     upload.Filename(),
					"url":      target,
				})
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if printOnly || !isInteractive() {
				_, _ = fmt.Fprintln(ioStreams.Out, target)
				return nil
			}

			if err := browser.OpenURL(target); err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
			printIfNotQuiet(cmd, "Opened %s\n", target)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "Open the direct CDN link instead of the public page")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the URL instead of opening the browser")

	return cmd
}
