package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stravan-client/client/dispatch/domain"
)

func stubServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"path": r.URL.Path,
				"body": string(body),
				"type": r.Header.Get("Content-Type"),
			})
			return
		}
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "query": r.URL.RawQuery})
	}))
	t.Cleanup(srv.Close)

	t.Setenv("STRAVAN_CONFIG_FILE", "")
	t.Setenv("STRAVAN_V1_BASE_URL", srv.URL+"/api/v1/")
	t.Setenv("STRAVAN_V1_SECURE_BASE_URL", srv.URL+"/secure/v1/")
	t.Setenv("STRAVAN_V2_BASE_URL", srv.URL+"/api/v2/")
	t.Setenv("STRAVAN_V2_SECURE_BASE_URL", srv.URL+"/secure/v2/")
	t.Setenv("STRAVAN_STATS_BACKEND", "none")
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestFetch_ManyActionsKeepArgumentOrder(t *testing.T) {
	stubServer(t)

	out, _, err := execute(t, "fetch", "rides/3", "rides/1", "rides/2", "--jq", ".id")
	require.NoError(t, err)
	require.Equal(t, "3\n1\n2\n", out)
}

func TestFetch_QueryAndVersion(t *testing.T) {
	stubServer(t)

	out, _, err := execute(t, "fetch", "rides/8384559", "--api", "2", "-q", "id=1", "-q", "id=2", "--jq", ".query")
	require.NoError(t, err)
	require.Equal(t, "id=1&id=2\n", out)
}

func TestFetch_FormPost(t *testing.T) {
	stubServer(t)

	out, _, err := execute(t, "fetch", "authentication/login", "--api", "v2", "--secure",
		"-f", "email=me@x.com", "-f", "password=pw", "--require", "email", "--jq", ".path, .body")
	require.NoError(t, err)
	require.Equal(t, "/secure/v2/authentication/login\nemail=me%40x.com&password=pw\n", out)
}

func TestFetch_MissingRequiredParam(t *testing.T) {
	stubServer(t)

	_, _, err := execute(t, "fetch", "rides", "--require", "token")
	require.True(t, domain.IsInvalidArgument(err))
}

func TestSend_DataFromFile(t *testing.T) {
	stubServer(t)

	path := filepath.Join(t.TempDir(), "ride.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ride":1}`), 0o600))

	out, _, err := execute(t, "send", "upload", "--data", "@"+path, "--jq", ".body, .type")
	require.NoError(t, err)
	require.Equal(t, "{\"ride\":1}\napplication/json\n", out)
}

func TestMetrics_MemoryDump(t *testing.T) {
	stubServer(t)

	_, errOut, err := execute(t, "--metrics", "fetch", "rides/1")
	require.NoError(t, err)
	require.Contains(t, errOut, "total ok=1 transport_failure=0 other=0")
	require.Contains(t, errOut, `route "v1 plain fetch_text"`)
}

func TestMetrics_PrometheusDump(t *testing.T) {
	stubServer(t)
	t.Setenv("STRAVAN_STATS_BACKEND", "prometheus")

	_, errOut, err := execute(t, "--metrics", "fetch", "rides/1")
	require.NoError(t, err)
	require.Contains(t, errOut, "stravan_dispatch_requests_total")
	require.Contains(t, errOut, "stravan_dispatch_permits_capacity 10")
}

func TestParseParams(t *testing.T) {
	cases := []struct {
		in   []string
		want domain.Params
		err  bool
	}{
		{in: nil, want: nil},
		{in: []string{"id=1", "id=2"}, want: domain.P("id", "1", "id", "2")},
		{in: []string{"q=a=b"}, want: domain.P("q", "a=b")},
		{in: []string{"token="}, want: domain.P("token", "")},
		{in: []string{"novalue"}, err: true},
		{in: []string{"=x"}, err: true},
	}
	for _, tc := range cases {
		got, err := parseParams(tc.in)
		if tc.err {
			require.True(t, domain.IsInvalidArgument(err), "%v", tc.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestJQFilter(t *testing.T) {
	_, err := newJQFilter(".[")
	require.Error(t, err)

	f, err := newJQFilter(".rides[] | {id}")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.print(context.Background(), &buf, `{"rides":[{"id":1,"x":0},{"id":2}]}`))
	require.Equal(t, "{\"id\":1}\n{\"id\":2}\n", buf.String())

	require.Error(t, f.print(context.Background(), &buf, "not json"))

	buf.Reset()
	raw, err := newJQFilter("")
	require.NoError(t, err)
	require.NoError(t, raw.print(context.Background(), &buf, "plain"))
	require.Equal(t, "plain\n", buf.String())
}
