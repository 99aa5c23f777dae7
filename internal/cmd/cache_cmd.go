package cmd

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			cache.ClearAll(dir)

			if url := os.Getenv("TIXTE_CACHE_REDIS"); url != "" {
				opts, err := redis.ParseURL(url)
				if err != nil {
					return fmt.Errorf("invalid TIXTE_CACHE_REDIS: %w", err)
				}
				cache.ClearAllRedis(redis.NewClient(opts))
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"cleared": true, "dir": dir})
			}
			printIfNotQuiet(cmd, "Cache cleared: %s\n", dir)
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := resolveCacheDir()
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"dir": dir})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		}),
	}
}
