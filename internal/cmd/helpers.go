package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/cache"
	"github.com/tixte/tixte-cli/internal/config"
	"github.com/tixte/tixte-cli/internal/dryrun"
	"github.com/tixte/tixte-cli/internal/iocontext"
	"github.com/tixte/tixte-cli/internal/outfmt"
	"github.com/tixte/tixte-cli/internal/resolve"
	"github.com/tixte/tixte-cli/internal/urlparse"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// getClient creates an API client from stored credentials
func getClient() (*api.Client, error) {
	return newClientFactory().client()
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return newTabWriter(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	compact := outfmt.IsCompact(cmd.Context())
	if tmpl := outfmt.GetTemplate(cmd.Context()); tmpl != "" {
		filtered, err := outfmt.ApplyQuery(v, query)
		if err != nil {
			return err
		}
		return outfmt.WriteTemplate(ioStreams.Out, filtered, tmpl)
	}
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, compact)
}

func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// isQuiet returns true if --quiet/-Q flag is set
func isQuiet(_ *cobra.Command) bool {
	return flags.Quiet
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		ioStreams := iocontext.GetIO(cmd.Context())
		_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
	}
}

func printAction(cmd *cobra.Command, action, resource string, id any, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		if value, ok := id.(string); !ok || value != "" {
			message = fmt.Sprintf("%s %v", message, id)
		}
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// normalizeEnum normalizes and validates a flag value against a list of valid enum values.
// It lowercases and trims the input, then tries exact match followed by unique prefix match.
// Returns the matched valid value or an error.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("--%s requires a value (one of: %s)", flagName, strings.Join(valid, ", "))
	}
	for _, v := range valid {
		if input == v {
			return v, nil
		}
	}
	var prefixMatches []string
	for _, v := range valid {
		if strings.HasPrefix(v, input) {
			prefixMatches = append(prefixMatches, v)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0], nil
	}
	if len(prefixMatches) > 1 {
		return "", fmt.Errorf("--%s %q is ambiguous (matches: %s)", flagName, input, strings.Join(prefixMatches, ", "))
	}
	return "", fmt.Errorf("--%s must be one of: %s (got %q)", flagName, strings.Join(valid, ", "), input)
}

// maybeDryRun writes the preview and returns true when dry-run is enabled.
func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	if isJSON(cmd) {
		payload := map[string]any{
			"dry_run":   true,
			"operation": preview.Operation,
			"resource":  preview.Resource,
		}
		if len(preview.Details) > 0 {
			payload["details"] = preview.Details
		}
		return true, printJSON(cmd, payload)
	}
	preview.Write(ioStreams.Out)
	return true, nil
}

type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue extends aliasBridgeValue to also forward the
// pflag.SliceValue interface (Append, Replace, GetSlice) when the
// underlying Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy — shares the Value interface
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// Deep-copy annotations so we don't mutate the original flag's map,
	// and strip the "required" annotation — the alias should never be
	// independently required (the canonical flag enforces that).
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	promptReaderMu sync.Mutex
	promptReader   *bufio.Reader
)

func getPromptReader(in io.Reader) *bufio.Reader {
	promptReaderMu.Lock()
	defer promptReaderMu.Unlock()
	if promptReader == nil {
		promptReader = bufio.NewReader(in)
	}
	return promptReader
}

func isInteractive() bool {
	if flags.NoInput || flags.Yes {
		return false
	}
	return iocontext.DefaultIO().Interactive()
}

type confirmOptions struct {
	prompt string
	force  bool
}

// confirmAction asks the user to confirm a destructive operation. It
// returns true without prompting when --yes or force is set, and fails
// in non-interactive mode without an explicit confirmation.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if opts.force || flags.Yes {
		return true, nil
	}
	if !isInteractive() {
		return false, fmt.Errorf("confirmation required; pass --yes (or --force) in non-interactive mode")
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", opts.prompt)
	reader := getPromptReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return e.err
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

var timeLocation *time.Location

func setTimeLocation(loc *time.Location) {
	timeLocation = loc
}

func formatTime(t time.Time, layout string) string {
	if timeLocation != nil {
		t = t.In(timeLocation)
	}
	return t.Format(layout)
}

func formatTimestamp(t time.Time) string {
	return formatTime(t, "2006-01-02 15:04")
}

func formatTimestampPtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTimestamp(*t)
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// maskKey masks an API key for display, showing only first and last 4 characters
func maskKey(key string) string {
	if len(key) < 8 {
		return strings.Repeat("*", len(key)) // Match actual length
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func resolveCacheDir() string {
	if dir := strings.TrimSpace(os.Getenv("TIXTE_CACHE_DIR")); dir != "" {
		return dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}

func currentProfileName() string {
	if env := strings.TrimSpace(os.Getenv("TIXTE_PROFILE")); env != "" {
		return env
	}
	if current, err := config.CurrentProfile(); err == nil {
		return current
	}
	return ""
}

// resolveUploadID resolves an upload reference to an asset ID. The
// reference may already be an asset ID; otherwise the upload list is
// fuzzy-matched by name, with the list cached between invocations.
func resolveUploadID(ctx context.Context, client *api.Client, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("upload reference cannot be empty")
	}

	// A pasted upload link resolves by its file name.
	if urlparse.IsUploadURL(ref) {
		parsed, err := urlparse.Parse(ref)
		if err != nil {
			return "", err
		}
		ref = parsed.Name
	}

	store := cache.NewStore("uploads", client.BaseURL, currentProfileName())

	var uploads []api.Upload
	if !store.Get(&uploads) {
		list, err := client.Uploads().List(ctx)
		if err != nil {
			return "", err
		}
		uploads = list.Uploads
		store.Put(uploads)
	}

	// Exact asset ID match short-circuits the fuzzy pass.
	for _, u := range uploads {
		if u.ID == ref {
			return u.ID, nil
		}
	}

	named := make([]resolve.Candidate, 0, len(uploads))
	for _, u := range uploads {
		named = append(named, resolve.Candidate{ID: u.ID, Name: u.Filename()})
	}
	id, err := resolve.BestMatch(ref, named)
	if err != nil {
		return "", err
	}
	return id, nil
}

// lookupUpload returns the upload with the given asset ID, consulting the
// cache before refetching the list.
func lookupUpload(ctx context.Context, client *api.Client, id string) (*api.Upload, error) {
	store := cache.NewStore("uploads", client.BaseURL, currentProfileName())

	var uploads []api.Upload
	if !store.Get(&uploads) {
		list, err := client.Uploads().List(ctx)
		if err != nil {
			return nil, err
		}
		uploads = list.Uploads
		store.Put(uploads)
	}

	for i := range uploads {
		if uploads[i].ID == id {
			return &uploads[i], nil
		}
	}
	return nil, fmt.Errorf("upload %s not found", id)
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			if isJSON(cmd) {
				if structured := api.StructuredErrorFromError(err); structured != nil {
					_ = printJSONErr(cmd, structured)
				}
			} else {
				// Print enhanced error to stderr
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			}
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
