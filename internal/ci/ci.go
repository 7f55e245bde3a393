// Package ci inspects the environment a publish runs in. Verification
// provenance and commit message suffixes depend on whether yevis is running
// inside a CI job.
package ci

import (
	"errors"
	"fmt"
	"os"
)

// InCI reports whether the process runs inside a CI environment. Any value
// of the CI variable counts, matching the convention used by GitHub Actions
// and most other CI providers.
func InCI() bool {
	_, ok := os.LookupEnv("CI")
	return ok
}

// ActionsRunURL returns the browsable URL of the current GitHub Actions run,
// assembled from the variables Actions injects into every job.
func ActionsRunURL() (string, error) {
	serverURL := os.Getenv("GITHUB_SERVER_URL")
	repository := os.Getenv("GITHUB_REPOSITORY")
	runID := os.Getenv("GITHUB_RUN_ID")
	if serverURL == "" || repository == "" || runID == "" {
		return "", errors.New("not running in GitHub Actions: GITHUB_SERVER_URL, GITHUB_REPOSITORY, or GITHUB_RUN_ID is not set")
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", serverURL, repository, runID), nil
}

// GitHubToken resolves the GitHub API token, preferring an explicitly passed
// flag value over the GITHUB_TOKEN environment variable.
func GitHubToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	return "", errors.New("no GitHub token found: set the GITHUB_TOKEN environment variable or use the --gh-token flag")
}
