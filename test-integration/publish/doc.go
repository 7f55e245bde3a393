// Package integration provides end-to-end tests for the yevis publisher.
// These tests run a full publish against a local git repository and verify
// the committed registry documents through the git host, the snapshot
// reader, and the preview server.
package integration
