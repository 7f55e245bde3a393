// Package registry assembles the in-memory state of a TRS registry for one
// publish invocation and renders it into the static document tree that is
// committed to the registry branch.
//
// This package is the middle of the publish pipeline: metadata records come
// in from internal/metadata, the previously published state comes in
// through a SnapshotSource, and the resulting DocumentTree goes out to
// internal/publish.
//
// # Snapshot Loading
//
// LoadSnapshot fetches the three top-level registry documents
// (service-info, tool classes, tools) from a SnapshotSource. Any failure is
// treated as "registry not published yet" and replaced with an empty or
// default value, so the first publish and every later publish run the same
// code path:
//
//	snap := registry.LoadSnapshot(ctx, trs.NewGitHubPagesEndpoint(owner, repo))
//
// # Upsert
//
// Builder folds workflow records into the snapshot state one at a time.
// Re-applying a version replaces its registry entry and concatenates
// verification provenance; applying a new version appends it:
//
//	b := registry.NewBuilder(snap, owner, repo, verified)
//	for _, rec := range records {
//		b.Apply(rec)
//	}
//	reg := b.Build()
//
// A Builder is a plain value owned by the caller for the duration of one
// publish invocation. Two builders never share state.
//
// # Materialization
//
// Materializer renders a built Registry into the path to JSON-string
// mapping served as the TRS API surface. Per published version it emits the
// descriptor, file listing, test listing, and provenance documents next to
// the shared top-level indexes. Remote fetches for descriptor content and
// checksums are best-effort: a failed fetch degrades the affected document
// and the publish continues.
package registry
