package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/cache"
	"github.com/tixte/tixte-cli/internal/cli"
	"github.com/tixte/tixte-cli/internal/dryrun"
	"github.com/tixte/tixte-cli/internal/outfmt"
	"github.com/tixte/tixte-cli/internal/validation"
)

func newUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uploads",
		Aliases: []string{"ul", "files"},
		Short:   "Manage your uploads",
	}

	cmd.AddCommand(newUploadsListCmd())
	cmd.AddCommand(newUploadsSearchCmd())
	cmd.AddCommand(newUploadsDeleteCmd())
	cmd.AddCommand(newUploadsSizeCmd())
	cmd.AddCommand(newUploadsShareCmd())

	return cmd
}

func newUploadsListCmd() *cobra.Command {
	var (
		noCache        bool
		uploadedAfter  string
		uploadedBefore string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your uploads",
		Example: strings.TrimSpace(`
  # List uploads
  tixte uploads list

  # Uploads from the last two days
  tixte uploads list --uploaded-after "2d ago"

  # JSON output with only names and URLs
  tixte uploads list --fields name,url
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			var after, before time.Time
			if uploadedAfter != "" {
				t, err := cli.ParseTimeRef(uploadedAfter, now)
				if err != nil {
					return fmt.Errorf("--uploaded-after: %w", err)
				}
				after = t
			}
			if uploadedBefore != "" {
				t, err := cli.ParseTimeRef(uploadedBefore, now)
				if err != nil {
					return fmt.Errorf("--uploaded-before: %w", err)
				}
				before = t
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			list, err := client.Uploads().List(cmdContext(cmd))
			if err != nil {
				return err
			}

			if !noCache {
				store := cache.NewStore("uploads", client.BaseURL, currentProfileName())
				store.Put(list.Uploads)
			}

			uploads := filterUploadsByTime(list.Uploads, after, before)

			if isJSON(cmd) || outfmt.IsJSONL(cmd.Context()) {
				return printJSON(cmd, map[string]any{
					"total":   list.Total,
					"uploads": uploads,
				})
			}

			if len(uploads) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No uploads found.")
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "ID\tNAME\tDOMAIN\tSIZE\tUPLOADED")
			for _, u := range uploads {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					u.ID, u.Filename(), u.Domain, formatBytes(u.Size), formatTimestampPtr(u.UploadedAt))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip updating the local upload cache")
	cmd.Flags().StringVar(&uploadedAfter, "uploaded-after", "", "Only uploads after this time ('2d ago', 'yesterday', RFC 3339)")
	cmd.Flags().StringVar(&uploadedBefore, "uploaded-before", "", "Only uploads before this time")
	flagAlias(cmd.Flags(), "no-cache", "nc")
	flagAlias(cmd.Flags(), "uploaded-after", "after")
	flagAlias(cmd.Flags(), "uploaded-before", "before")

	return cmd
}

// filterUploadsByTime keeps uploads whose timestamp falls inside the
// half-open window. Zero bounds are not applied; uploads without a
// timestamp survive only an unbounded filter.
func filterUploadsByTime(uploads []api.Upload, after, before time.Time) []api.Upload {
	if after.IsZero() && before.IsZero() {
		return uploads
	}
	filtered := make([]api.Upload, 0, len(uploads))
	for _, u := range uploads {
		if u.UploadedAt == nil {
			continue
		}
		if !after.IsZero() && u.UploadedAt.Before(after) {
			continue
		}
		if !before.IsZero() && !u.UploadedAt.Before(before) {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}

func newUploadsSearchCmd() *cobra.Command {
	var (
		domains    []string
		extensions []string
		limit      int
		minSize    int64
		maxSize    int64
		sortBy     string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search uploads by name",
		Example: strings.TrimSpace(`
  # Search by name
  tixte uploads search vacation

  # Narrow by extension and domain
  tixte uploads search photo --extension png --search-domain files.tixte.co

  # Size range in bytes
  tixte uploads search backup --min-size 1048576
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if minSize < 0 || maxSize < 0 {
				return fmt.Errorf("--min-size and --max-size must be >= 0")
			}
			if maxSize > 0 && minSize > maxSize {
				return fmt.Errorf("--min-size cannot exceed --max-size")
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			opts := &api.SearchOptions{
				Domains:    domains,
				Extensions: extensions,
				Limit:      limit,
				MinSize:    minSize,
				MaxSize:    maxSize,
				SortBy:     sortBy,
			}
			uploads, err := client.Uploads().Search(cmdContext(cmd), args[0], opts)
			if err != nil {
				return err
			}

			if isJSON(cmd) || outfmt.IsJSONL(cmd.Context()) {
				return printJSON(cmd, map[string]any{"uploads": uploads})
			}

			if len(uploads) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No uploads matched.")
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "ID\tNAME\tDOMAIN\tSIZE")
			for _, u := range uploads {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Filename(), u.Domain, formatBytes(u.Size))
			}
			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&domains, "search-domain", nil, "Restrict to a domain (repeatable)")
	cmd.Flags().StringSliceVar(&extensions, "extension", nil, "Restrict to a file extension (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "Minimum size in bytes")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "Maximum size in bytes")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort field (e.g. relevance, size, uploaded_at)")
	flagAlias(cmd.Flags(), "extension", "ext")
	flagAlias(cmd.Flags(), "limit", "lim")

	return cmd
}

func newUploadsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <ref>...",
		Aliases: []string{"rm"},
		Short:   "Delete uploads",
		Long:    "Delete uploads by asset ID or fuzzy name match. Deletion is permanent.",
		Example: strings.TrimSpace(`
  # Delete by asset ID
  tixte uploads delete abc123

  # Delete by name (fuzzy matched)
  tixte uploads delete vacation-photo

  # Skip the confirmation prompt
  tixte uploads delete abc123 --force
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				id, err := resolveUploadID(ctx, client, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			if handled, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "delete",
				Resource:  fmt.Sprintf("%d upload(s)", len(ids)),
				Details:   map[string]any{"asset_ids": strings.Join(ids, ", ")},
			}); handled {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				prompt: fmt.Sprintf("Permanently delete %d upload(s)?", len(ids)),
				force:  force,
			})
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}

			deleted := make([]string, 0, len(ids))
			for _, id := range ids {
				if _, err := client.Uploads().Delete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete %s: %w", id, err)
				}
				deleted = append(deleted, id)
				printAction(cmd, "Deleted", "upload", id, "")
			}

			// The cached upload list is stale now.
			cache.NewStore("uploads", client.BaseURL, currentProfileName()).Clear()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"deleted": deleted})
			}
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func newUploadsSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show total storage used",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			info, err := client.Uploads().TotalSize(cmdContext(cmd))
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"bytes": info.User,
					"human": formatBytes(info.User),
				})
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total storage used: %s (%d bytes)\n", formatBytes(info.User), info.User)
			return nil
		}),
	}
}

func newUploadsShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Manage upload permissions",
	}

	cmd.AddCommand(newShareListCmd())
	cmd.AddCommand(newShareGrantCmd())
	cmd.AddCommand(newShareEditCmd())
	cmd.AddCommand(newShareRevokeCmd())

	return cmd
}

func newShareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <ref>",
		Short: "List who an upload is shared with",
		Args:  cobra.ExactArgs(1),
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

			perms, err := client.Uploads().Permissions(ctx, id)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"permissions": perms})
			}

			if len(perms) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Not shared with anyone.")
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "USER\tUSERNAME\tLEVEL")
			for _, p := range perms {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.User.ID, p.User.Username, p.Level)
			}
			return nil
		}),
	}
}

func newShareGrantCmd() *cobra.Command {
	var (
		level   string
		message string
	)

	cmd := &cobra.Command{
		Use:   "grant <ref> <user-id>",
		Short: "Share an upload with a user",
		Example: strings.TrimSpace(`
  # Share as viewer
  tixte uploads share grant vacation-photo 123456

  # Share as manager with a message
  tixte uploads share grant abc123 123456 --level manager --message "edit away"
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePermissionLevel(level)
			if err != nil {
				return err
			}
			if err := validation.ValidateShareMessage(message); err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			id, err := resolveUploadID(ctx, client, args[0])
			if err != nil {
				return err
			}

			perm, err := client.Uploads().GrantPermission(ctx, id, args[1], parsed, message)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, perm)
			}
			printAction(cmd, "Shared", "upload", id, fmt.Sprintf("with %s as %s", perm.User.Username, perm.Level))
			return nil
		}),
	}

	cmd.Flags().StringVar(&level, "level", "viewer", "Access level: viewer|manager|owner")
	cmd.Flags().StringVar(&message, "message", "", "Optional message for the recipient")
	flagAlias(cmd.Flags(), "level", "lv")
	flagAlias(cmd.Flags(), "message", "msg")

	return cmd
}

func newShareEditCmd() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "edit <ref> <user-id>",
		Short: "Change a user's access level on an upload",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePermissionLevel(level)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			id, err := resolveUploadID(ctx, client, args[0])
			if err != nil {
				return err
			}

			if err := client.Uploads().EditPermission(ctx, id, args[1], parsed); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"asset_id": id,
					"user_id":  args[1],
					"level":    parsed.String(),
				})
			}
			printAction(cmd, "Updated", "permission for user", args[1], parsed.String())
			return nil
		}),
	}

	cmd.Flags().StringVar(&level, "level", "", "New access level: viewer|manager|owner")
	_ = cmd.MarkFlagRequired("level")
	flagAlias(cmd.Flags(), "level", "lv")

	return cmd
}

func newShareRevokeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "revoke <ref> <user-id>",
		Short: "Stop sharing an upload with a user",
		Args:  cobra.ExactArgs(2),
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

			ok, err := confirmAction(cmd, confirmOptions{
				prompt: fmt.Sprintf("Revoke access for user %s?", args[1]),
				force:  force,
			})
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}

			if err := client.Uploads().RevokePermission(ctx, id, args[1]); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"asset_id": id,
					"user_id":  args[1],
					"revoked":  true,
				})
			}
			printAction(cmd, "Revoked", "access for user", args[1], "")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func parsePermissionLevel(value string) (api.PermissionLevel, error) {
	normalized, err := normalizeEnum("level", value, []string{"viewer", "manager", "owner"})
	if err != nil {
		return 0, err
	}
	return api.ParsePermissionLevel(normalized)
}
