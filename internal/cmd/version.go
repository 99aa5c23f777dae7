package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tixte/tixte-cli/internal/update"
)

// version is set at build time via -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if isJSON(cmd) {
				payload := map[string]any{
					"version": version,
					"go":      runtime.Version(),
					"os":      runtime.GOOS,
					"arch":    runtime.GOARCH,
				}
				if checkUpdate {
					if result := update.CheckForUpdate(cmdContext(cmd), version); result != nil {
						payload["latest_version"] = result.LatestVersion
						payload["update_available"] = result.UpdateAvailable
						if result.UpdateURL != "" {
							payload["update_url"] = result.UpdateURL
						}
					}
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "tixte-cli version %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)

			if checkUpdate {
				result := update.CheckForUpdate(cmdContext(cmd), version)
				switch {
				case result == nil:
					_, _ = fmt.Fprintln(out, "Update check skipped.")
				case result.UpdateAvailable:
					_, _ = fmt.Fprintf(out, "A newer version is available: %s\n", result.LatestVersion)
					if result.UpdateURL != "" {
						_, _ = fmt.Fprintf(out, "  %s\n", result.UpdateURL)
					}
				default:
					_, _ = fmt.Fprintln(out, "You're on the latest version.")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")

	return cmd
}
