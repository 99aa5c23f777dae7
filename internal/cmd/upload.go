package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/dryrun"
	"github.com/tixte/tixte-cli/internal/validation"
)

const defaultUploadConcurrency = 4

func newUploadCmd() *cobra.Command {
	var (
		private     bool
		name        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:     "upload <file>...",
		Aliases: []string{"up"},
		Short:   "Upload files to your domain",
		Long: strings.TrimSpace(`
Upload one or more files to a Tixte domain.

The target domain comes from --domain, TIXTE_DOMAIN, or the stored profile.
Multiple files are uploaded concurrently.
`),
		Example: strings.TrimSpace(`
  # Upload a single file
  tixte upload photo.png

  # Upload to a specific domain, privately
  tixte upload photo.png --domain files.tixte.co --private

  # Upload with a custom display name
  tixte upload photo.png --name vacation

  # Bulk upload with higher concurrency
  tixte upload *.png --concurrency 8
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file")
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be >= 1")
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			// Validate everything up front so a bad path late in the list
			// doesn't waste earlier uploads.
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("cannot read %q: %w", path, err)
				}
				if info.IsDir() {
					return fmt.Errorf("%q is a directory", path)
				}
				if err := validation.ValidateUploadSize(info.Size()); err != nil {
					return fmt.Errorf("%q: %w", path, err)
				}
			}

			if handled, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "upload",
				Resource:  fmt.Sprintf("%d file(s)", len(args)),
				Details: map[string]any{
					"files":   strings.Join(args, ", "),
					"private": private,
				},
			}); handled {
				return err
			}

			results, err := uploadFiles(cmd, client, args, name, private, concurrency)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uploads": results})
			}

			for _, u := range results {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), u.URL)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&private, "private", false, "Make the upload private")
	cmd.Flags().StringVar(&name, "name", "", "Display name for the upload (single file only)")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultUploadConcurrency, "Maximum concurrent uploads")
	flagAlias(cmd.Flags(), "private", "priv")
	flagAlias(cmd.Flags(), "concurrency", "cc")

	return cmd
}

// uploadFiles uploads the given paths with bounded concurrency and returns
// the uploads in input order.
func uploadFiles(cmd *cobra.Command, client *api.Client, paths []string, name string, private bool, concurrency int) ([]*api.Upload, error) {
	ctx := cmdContext(cmd)
	sem := semaphore.NewWeighted(int64(concurrency))
	group, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[int]*api.Upload, len(paths))

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}

			fileName := filepath.Base(path)
			opts := &api.UploadOptions{Private: private}
			file := api.File{Name: fileName, Content: content}
			if name != "" {
				ext := filepath.Ext(fileName)
				file.Name = name + ext
			}

			upload, err := client.Uploads().Upload(ctx, file, opts)
			if err != nil {
				return fmt.Errorf("failed to upload %q: %w", path, err)
			}

			mu.Lock()
			results[i] = upload
			mu.Unlock()

			printIfNotQuiet(cmd, "Uploaded %s -> %s\n", path, upload.URL)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(results))
	for i := range results {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	ordered := make([]*api.Upload, 0, len(indexes))
	for _, i := range indexes {
		ordered = append(ordered, results[i])
	}
	return ordered, nil
}
