package github

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeTransport serves canned responses keyed by request path.
type routeTransport struct {
	routes map[string]string
	paths  []string
}

func (rt *routeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.paths = append(rt.paths, req.URL.RequestURI())
	body, ok := rt.routes[req.URL.Path]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
		body = `{"message":"Not Found"}`
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func newTestClient(t *testing.T, routes map[string]string) (*Client, *routeTransport) {
	t.Helper()
	rt := &routeTransport{routes: routes}
	client, err := NewClientWithOptions(api.ClientOptions{
		AuthToken: "test-token",
		Host:      "github.com",
		Transport: rt,
	})
	require.NoError(t, err)
	return client, rt
}

func TestListDirectory(t *testing.T) {
	client, rt := newTestClient(t, map[string]string{
		"/repos/acme/voices/contents/profiles": `[
			{"name":"alice.json","path":"profiles/alice.json","type":"file","sha":"a1"},
			{"name":"drafts","path":"profiles/drafts","type":"dir","sha":"d1"}
		]`,
	})

	entries, err := client.ListDirectory(context.Background(), "acme", "voices", "profiles", "main")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "alice.json", entries[0].Name)
	assert.Equal(t, "file", entries[0].Type)
	assert.Equal(t, "dir", entries[1].Type)
	assert.Contains(t, rt.paths[0], "ref=main")
}

func TestListDirectory_Missing(t *testing.T) {
	client, _ := newTestClient(t, nil)

	entries, err := client.ListDirectory(context.Background(), "acme", "voices", "profiles", "")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFetchFile(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"style":"terse and dry"}`))
	wrapped := encoded[:10] + "\n" + encoded[10:]

	client, rt := newTestClient(t, map[string]string{
		"/repos/acme/voices/contents/profiles/alice.json": `{"type":"file","encoding":"base64","content":"` +
			strings.ReplaceAll(wrapped, "\n", `\n`) + `","sha":"abc123"}`,
	})

	res, err := client.FetchFile(context.Background(), "acme", "voices", "profiles/alice.json", "")
	require.NoError(t, err)

	assert.Equal(t, `{"style":"terse and dry"}`, res.Content)
	assert.Equal(t, "abc123", res.SHA)
	assert.Equal(t, "/repos/acme/voices/contents/profiles/alice.json", rt.paths[0])
}

func TestFetchFile_RequiresArgs(t *testing.T) {
	client, _ := newTestClient(t, nil)

	_, err := client.FetchFile(context.Background(), "acme", "", "x.json", "")
	assert.Error(t, err)
}

func TestRepoExists(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/repos/acme/voices": `{"id": 42}`,
	})

	ok, err := client.RepoExists(context.Background(), "acme", "voices")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.RepoExists(context.Background(), "acme", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContentsEndpoint(t *testing.T) {
	assert.Equal(t, "repos/o/r/contents/profiles/my%20voice.json",
		contentsEndpoint("o", "r", "/profiles/my voice.json", ""))
	assert.Equal(t, "repos/o/r/contents/profiles?ref=feature%2Fx",
		contentsEndpoint("o", "r", "profiles", "feature/x"))
}
