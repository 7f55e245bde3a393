// Package helpers provides shared fixtures for the publish integration
// tests: an HTTP server hosting workflow content and factories for metadata
// records pointing at it.
package helpers

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// ContentServer hosts workflow files over HTTP so publishes can fetch
// descriptor content and file checksums without leaving the test process.
type ContentServer struct {
	mu     sync.RWMutex
	files  map[string][]byte
	server *httptest.Server
}

// NewContentServer starts a server with no files registered.
func NewContentServer() *ContentServer {
	cs := &ContentServer{files: map[string][]byte{}}
	cs.server = httptest.NewServer(http.HandlerFunc(cs.handle))
	return cs
}

func (c *ContentServer) handle(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	content, ok := c.files[r.URL.Path]
	c.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(content)
}

// Add registers content under path and returns its absolute URL.
func (c *ContentServer) Add(path, content string) string {
	c.mu.Lock()
	c.files[path] = []byte(content)
	c.mu.Unlock()
	return c.server.URL + path
}

// URL returns the absolute URL of a path on the server.
func (c *ContentServer) URL(path string) string {
	return c.server.URL + path
}

// Close shuts the server down.
func (c *ContentServer) Close() {
	c.server.Close()
}
