package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API connectivity and credentials",
		Long:  "Make an authenticated request against the API and report whether the configured credentials work.",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			start := time.Now()
			me, err := client.Users().Me(cmdContext(cmd))
			latency := time.Since(start)
			if err != nil {
				return err
			}

			payload := map[string]any{
				"ok":         true,
				"base_url":   client.BaseURL,
				"username":   me.Username,
				"latency_ms": latency.Milliseconds(),
			}
			if rl := client.LastRateLimit(); rl != nil {
				payload["rate_limit"] = map[string]any{
					"limit":     rl.Limit,
					"remaining": rl.Remaining,
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, payload)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "API:\t%s\n", client.BaseURL)
			_, _ = fmt.Fprintf(w, "Authenticated as:\t%s\n", me.Username)
			_, _ = fmt.Fprintf(w, "Latency:\t%s\n", latency.Round(time.Millisecond))
			if rl := client.LastRateLimit(); rl != nil {
				_, _ = fmt.Fprintf(w, "Rate limit:\t%d/%d remaining\n", rl.Remaining, rl.Limit)
			}
			return nil
		}),
	}
}
