package trs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

// registryHandler serves a minimal published registry layout.
func registryHandler(t *testing.T, schemaVersion string) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/service-info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "io.github.ddbj.workflow-registry",
			"name": "Yevis workflow registry ddbj/workflow-registry",
			"type": {"group": "yevis", "artifact": "yevis", "version": "` + schemaVersion + `"},
			"organization": {"name": "ddbj", "url": "https://github.com/ddbj"},
			"version": "20220301123045"
		}`))
	})
	mux.HandleFunc("/toolClasses", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "workflow", "name": "Workflow", "description": "A computational workflow"}]`))
	})
	mux.HandleFunc("/tools", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"url": "https://ddbj.github.io/workflow-registry/tools/c13b6e27-a4ee-426f-8bdb-8cf5c4310bad",
			"id": "c13b6e27-a4ee-426f-8bdb-8cf5c4310bad",
			"organization": "@suecharo",
			"toolclass": {"id": "workflow", "name": "Workflow", "description": "A computational workflow"},
			"versions": [{
				"url": "https://ddbj.github.io/workflow-registry/tools/c13b6e27-a4ee-426f-8bdb-8cf5c4310bad/versions/1.0.0",
				"id": "1.0.0",
				"verified": false
			}]
		}]`))
	})
	return mux
}

func newEndpointServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func TestEndpoint_ServiceInfo(t *testing.T) {
	t.Parallel()

	server := newEndpointServer(t, registryHandler(t, "2.0.1"))
	// Trailing slashes on the base URL are tolerated.
	ep := trs.NewEndpoint(server.URL + "/")

	si, err := ep.ServiceInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "io.github.ddbj.workflow-registry", si.ID)
	assert.Equal(t, "yevis", si.Type.Artifact)
}

func TestEndpoint_ToolClasses(t *testing.T) {
	t.Parallel()

	server := newEndpointServer(t, registryHandler(t, "2.0.1"))
	ep := trs.NewEndpoint(server.URL)

	classes, err := ep.ToolClasses(context.Background())

	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "workflow", classes[0].ID)
}

func TestEndpoint_Tools(t *testing.T) {
	t.Parallel()

	server := newEndpointServer(t, registryHandler(t, "2.0.1"))
	ep := trs.NewEndpoint(server.URL)

	tools, err := ep.Tools(context.Background())

	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, uuid.MustParse("c13b6e27-a4ee-426f-8bdb-8cf5c4310bad"), tools[0].ID)
	require.Len(t, tools[0].Versions, 1)
	assert.Equal(t, "1.0.0", tools[0].Versions[0].Version())
}

func TestEndpoint_NotFound(t *testing.T) {
	t.Parallel()

	server := newEndpointServer(t, http.NotFoundHandler())
	ep := trs.NewEndpoint(server.URL)

	_, err := ep.ServiceInfo(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestEndpoint_MalformedDocument(t *testing.T) {
	t.Parallel()

	server := newEndpointServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	ep := trs.NewEndpoint(server.URL)

	_, err := ep.ServiceInfo(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestEndpoint_Validate(t *testing.T) {
	t.Parallel()

	t.Run("matching artifact and schema", func(t *testing.T) {
		t.Parallel()

		server := newEndpointServer(t, registryHandler(t, "2.0.1"))
		ep := trs.NewEndpoint(server.URL)

		assert.NoError(t, ep.Validate(context.Background()))
	})

	t.Run("foreign artifact", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/service-info", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"id": "org.dockstore",
				"name": "Dockstore",
				"type": {"group": "org.ga4gh", "artifact": "trs", "version": "2.0.1"},
				"organization": {"name": "dockstore", "url": "https://dockstore.org"},
				"version": "1"
			}`))
		})
		server := newEndpointServer(t, mux)
		ep := trs.NewEndpoint(server.URL)

		err := ep.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a yevis registry")
	})

	t.Run("newer schema version", func(t *testing.T) {
		t.Parallel()

		server := newEndpointServer(t, registryHandler(t, "3.0.0"))
		ep := trs.NewEndpoint(server.URL)

		err := ep.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upgrade yevis")
	})

	t.Run("older schema version", func(t *testing.T) {
		t.Parallel()

		server := newEndpointServer(t, registryHandler(t, "1.0.0"))
		ep := trs.NewEndpoint(server.URL)

		err := ep.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2.0.1")
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		t.Parallel()

		server := newEndpointServer(t, http.NotFoundHandler())
		ep := trs.NewEndpoint(server.URL)

		err := ep.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch service-info")
	})
}

func TestNewGitHubPagesEndpoint(t *testing.T) {
	t.Parallel()

	ep := trs.NewGitHubPagesEndpoint("ddbj", "workflow-registry")

	assert.Equal(t, "https://ddbj.github.io/workflow-registry", ep.Base())
}
