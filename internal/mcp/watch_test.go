package mcp

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vaultsearch/internal/search"
	"github.com/Aman-CERP/vaultsearch/internal/watcher"
)

// listURIs connects a client to srv and returns the sorted file resource URIs.
func listURIs(t *testing.T, srv *Server) []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()
	session, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil).
		Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	list, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	var uris []string
	for _, r := range list.Resources {
		if r.URI != MetricsURI {
			uris = append(uris, r.URI)
		}
	}
	sort.Strings(uris)
	return uris
}

// registered returns the sorted vault paths currently exposed.
func registered(srv *Server) []string {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	out := make([]string, 0, len(srv.resources))
	for p := range srv.resources {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func TestServer_SyncResources_AddsAndRemoves(t *testing.T) {
	// Given: a searcher whose file list changes between calls
	files := []string{"a.md", "b.md"}
	engine := &MockSearcher{
		FilesFn: func(string, search.QueryOptions) ([]string, error) {
			return files, nil
		},
	}
	srv, err := NewServer(engine, nil, t.TempDir())
	require.NoError(t, err)
	_, err = srv.RegisterResources(context.Background())
	require.NoError(t, err)

	// When: one file disappears and another appears
	files = []string{"b.md", "c.md"}
	added, removed, err := srv.SyncResources(context.Background())

	// Then: the registered set follows the listing
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"file://b.md", "file://c.md"}, listURIs(t, srv))
}

func TestServer_SyncResources_NoChange(t *testing.T) {
	engine := &MockSearcher{
		FilesFn: func(string, search.QueryOptions) ([]string, error) {
			return []string{"a.md"}, nil
		},
	}
	srv, err := NewServer(engine, nil, t.TempDir())
	require.NoError(t, err)
	_, err = srv.RegisterResources(context.Background())
	require.NoError(t, err)

	added, removed, err := srv.SyncResources(context.Background())

	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, removed)
}

func TestServer_SyncResources_CanceledContext(t *testing.T) {
	srv, err := NewServer(&MockSearcher{}, nil, t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = srv.SyncResources(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestServer_WatchResources_FollowsVault(t *testing.T) {
	// Given: a served vault with one note
	vault := writeVault(t, map[string]string{
		".gitignore": "drafts/\n",
		"inbox.md":   "hello\n",
	})
	srv, err := NewServer(search.NewEngine(), nil, vault)
	require.NoError(t, err)
	_, err = srv.RegisterResources(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.WatchResources(ctx, watcher.Options{Debounce: 20 * time.Millisecond}) }()
	defer func() {
		cancel()
		<-done
	}()
	time.Sleep(100 * time.Millisecond)

	// When: a note is added, an ignored draft is written and the first note removed
	require.NoError(t, os.WriteFile(filepath.Join(vault, "new.md"), []byte("new\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(vault, "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vault, "drafts", "x.md"), []byte("x\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(vault, "inbox.md")))

	// Then: resources converge on the visible notes
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"new.md"}, registered(srv))
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, []string{"file://new.md"}, listURIs(t, srv))
}

func TestServer_WatchResources_MissingVault(t *testing.T) {
	srv, err := NewServer(&MockSearcher{}, nil, filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)

	err = srv.WatchResources(context.Background(), watcher.Options{})

	assert.Error(t, err)
}

func TestServer_Close_StopsWatchResources(t *testing.T) {
	// Given: a watch loop running under a context that is never canceled
	vault := writeVault(t, map[string]string{"inbox.md": "hello\n"})
	srv, err := NewServer(search.NewEngine(), nil, vault)
	require.NoError(t, err)
	_, err = srv.RegisterResources(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.WatchResources(context.Background(), watcher.Options{}) }()
	time.Sleep(50 * time.Millisecond)

	// When: the server is closed, twice
	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())

	// Then: the loop returns cleanly
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("WatchResources did not return after Close")
	}
}

func TestServer_WatchResources_AfterCloseReturnsAtOnce(t *testing.T) {
	vault := writeVault(t, map[string]string{"inbox.md": "hello\n"})
	srv, err := NewServer(search.NewEngine(), nil, vault)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	err = srv.WatchResources(context.Background(), watcher.Options{})

	assert.NoError(t, err)
}
