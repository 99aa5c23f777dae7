// Package update checks the project's GitHub releases for a newer
// build of the CLI. The check is advisory: failures are swallowed and
// the command proceeds.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// ReleasesURL is the latest-release endpoint. Tests point it at a
// local server.
var ReleasesURL = "https://api.github.com/repos/tixte/tixte-cli/releases/latest"

const checkTimeout = 5 * time.Second

// Release is the slice of the GitHub release payload the check reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult compares the running build against the newest release.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateURL       string
	UpdateAvailable bool
}

// CheckForUpdate reports the newest published release, or nil when the
// running build is untagged (dev builds) or the lookup failed.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	current := canonical(currentVersion)
	if !semver.IsValid(current) {
		return nil
	}

	release, err := fetchLatest(ctx)
	if err != nil {
		return nil
	}

	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	if latest := canonical(release.TagName); semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result
}

func fetchLatest(ctx context.Context) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

// canonical forces the leading "v" that semver comparison wants.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
