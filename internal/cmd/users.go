package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			me, err := client.Users().Me(cmdContext(cmd))
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, me)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "ID:\t%s\n", me.ID)
			_, _ = fmt.Fprintf(w, "Username:\t%s\n", me.Username)
			if me.Email != "" {
				_, _ = fmt.Fprintf(w, "Email:\t%s\n", me.Email)
			}
			if me.UploadRegion != "" {
				_, _ = fmt.Fprintf(w, "Region:\t%s\n", me.UploadRegion)
			}
			if me.Pro {
				_, _ = fmt.Fprintf(w, "Pro:\tyes\n")
			}
			if me.MFAEnabled {
				_, _ = fmt.Fprintf(w, "MFA:\tenabled\n")
			}
			return nil
		}),
	}
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Look up other users",
	}

	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersSearchCmd())

	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Fetch a user's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(cmdContext(cmd), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, user)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "ID:\t%s\n", user.ID)
			_, _ = fmt.Fprintf(w, "Username:\t%s\n", user.Username)
			if url := user.AvatarURL(); url != "" {
				_, _ = fmt.Fprintf(w, "Avatar:\t%s\n", url)
			}
			return nil
		}),
	}
}

func newUsersSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users by username",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			users, err := client.Users().Search(cmdContext(cmd), args[0], limit)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"users": users})
			}

			if len(users) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No users found.")
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintln(w, "ID\tUSERNAME")
			for _, u := range users {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", u.ID, u.Username)
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	flagAlias(cmd.Flags(), "limit", "lim")

	return cmd
}
