package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/urlparse"
	"github.com/tixte/tixte-cli/internal/validation"
)

func newDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "download <ref|url>",
		Aliases: []string{"dl"},
		Short:   "Download an upload",
		Long: strings.TrimSpace(`
Download an upload's content.

The argument may be a full URL, an asset ID, or an upload name
(fuzzy matched against your uploads).
`),
		Example: strings.TrimSpace(`
  # Download by name
  tixte download vacation-photo

  # Download a URL to a specific path
  tixte download https://files.tixte.co/photo.png --output photo.png

  # Write to stdout
  tixte download vacation-photo --output -
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			ref := strings.TrimSpace(args[0])
			var rawURL string
			if urlparse.IsUploadURL(ref) {
				rawURL = ref
			} else {
				id, err := resolveUploadID(ctx, client, ref)
				if err != nil {
					return err
				}
				upload, err := lookupUpload(ctx, client, id)
				if err != nil {
					return err
				}
				rawURL = upload.DirectURL
				if rawURL == "" {
					rawURL = upload.PublicURL()
				}
				if rawURL == "" {
					return fmt.Errorf("upload %s has no downloadable URL", id)
				}
			}

			if err := validation.ValidateFetchURL(rawURL); err != nil {
				return fmt.Errorf("refusing to download: %w", err)
			}

			content, err := client.FetchURL(ctx, rawURL)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			dest := output
			if dest == "" {
				dest = path.Base(rawURL)
				if dest == "" || dest == "." || dest == "/" {
					return fmt.Errorf("cannot infer a file name from %q; use --output", rawURL)
				}
			}
			if err := os.WriteFile(dest, content, 0o644); err != nil {
				return fmt.Errorf("failed to write %q: %w", dest, err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"url":   rawURL,
					"path":  dest,
					"bytes": len(content),
				})
			}
			printIfNotQuiet(cmd, "Downloaded %s (%s)\n", dest, formatBytes(int64(len(content))))
			return nil
		}),
	}

	// --output is taken by the global format flag; -O stays familiar from curl.
	cmd.Flags().StringVarP(&output, "output-file", "O", "", "Destination path ('-' for stdout; defaults to the remote name)")
	flagAlias(cmd.Flags(), "output-file", "dest")

	return cmd
}
