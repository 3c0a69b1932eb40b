package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"plateanet-crawler/internal/config"
	"plateanet-crawler/internal/scrapers/plateanet"

	"github.com/stretchr/testify/require"
)

func TestCommandError(t *testing.T) {
	require.NoError(t, commandError("crawl", nil))
	require.NoError(t, commandError("crawl", context.Canceled))
	require.NoError(t, commandError("crawl", &plateanet.FetchError{
		Method: "GET",
		Url:    "/",
		Err:    fmt.Errorf("Get \"/\": %w", context.Canceled),
	}))

	err := commandError("list productions", &plateanet.FetchError{Method: "GET", Url: "/", StatusCode: 500, Status: "500"})
	require.ErrorContains(t, err, "list productions")
	var fetchErr *plateanet.FetchError
	require.True(t, errors.As(err, &fetchErr))
}

// writeConfig points the CLI at `baseUrl` through a temporary config file.
func writeConfig(t *testing.T, baseUrl string) {
	t.Setenv(config.TokenEnv, "")
	path := filepath.Join(t.TempDir(), "plateanet.json5")
	err := os.WriteFile(path, []byte(fmt.Sprintf(`{base_url: %q, token: "secret"}`, baseUrl)), 0644)
	require.NoError(t, err)
	rootCmd.SetArgs([]string{"--config", path, "crawl"})
}

func TestCrawlInterruptedIsNotAnError(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<select id="obras"></select>`))
	}))
	defer server.Close()
	writeConfig(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteContext(ctx)
	require.NoError(t, err)
	require.Zero(t, hits.Load())
}

func TestCrawlReturnsCatalogFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	writeConfig(t, server.URL)

	err := ExecuteContext(context.Background())

	var fetchErr *plateanet.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}
