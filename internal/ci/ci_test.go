package ci_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/ci"
)

func TestInCI(t *testing.T) {
	t.Run("CI variable set", func(t *testing.T) {
		t.Setenv("CI", "true")

		assert.True(t, ci.InCI())
	})

	t.Run("CI variable set to empty string still counts", func(t *testing.T) {
		t.Setenv("CI", "")

		assert.True(t, ci.InCI())
	})

	t.Run("CI variable unset", func(t *testing.T) {
		t.Setenv("CI", "placeholder")
		// t.Setenv restores the original value on cleanup; unset for the
		// duration of this test.
		require.NoError(t, unsetenv(t, "CI"))

		assert.False(t, ci.InCI())
	})
}

func TestActionsRunURL(t *testing.T) {
	t.Run("all variables set", func(t *testing.T) {
		t.Setenv("GITHUB_SERVER_URL", "https://github.com")
		t.Setenv("GITHUB_REPOSITORY", "sapporo-wes/yevis-workflows")
		t.Setenv("GITHUB_RUN_ID", "1234567890")

		url, err := ci.ActionsRunURL()

		require.NoError(t, err)
		assert.Equal(t, "https://github.com/sapporo-wes/yevis-workflows/actions/runs/1234567890", url)
	})

	t.Run("missing run id", func(t *testing.T) {
		t.Setenv("GITHUB_SERVER_URL", "https://github.com")
		t.Setenv("GITHUB_REPOSITORY", "sapporo-wes/yevis-workflows")
		t.Setenv("GITHUB_RUN_ID", "placeholder")
		require.NoError(t, unsetenv(t, "GITHUB_RUN_ID"))

		_, err := ci.ActionsRunURL()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_RUN_ID")
	})

	t.Run("missing all variables", func(t *testing.T) {
		for _, key := range []string{"GITHUB_SERVER_URL", "GITHUB_REPOSITORY", "GITHUB_RUN_ID"} {
			t.Setenv(key, "placeholder")
			require.NoError(t, unsetenv(t, key))
		}

		_, err := ci.ActionsRunURL()

		require.Error(t, err)
	})
}

func TestGitHubToken(t *testing.T) {
	t.Run("flag value wins over environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")

		token, err := ci.GitHubToken("flag-token")

		require.NoError(t, err)
		assert.Equal(t, "flag-token", token)
	})

	t.Run("environment variable used when flag empty", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")

		token, err := ci.GitHubToken("")

		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("error when neither is set", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "placeholder")
		require.NoError(t, unsetenv(t, "GITHUB_TOKEN"))

		_, err := ci.GitHubToken("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_TOKEN")
		assert.Contains(t, err.Error(), "--gh-token")
	})
}

// unsetenv removes a variable after t.Setenv has already registered the
// restore-on-cleanup handler for it.
func unsetenv(t *testing.T, key string) error {
	t.Helper()
	return os.Unsetenv(key)
}
