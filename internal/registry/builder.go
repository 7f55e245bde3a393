package registry

import (
	"github.com/google/uuid"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/ci"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

// recordKey identifies one workflow version inside a publish invocation.
type recordKey struct {
	id      uuid.UUID
	version string
}

// Builder folds workflow records into the registry state for one publish
// invocation. All records are applied before a single transaction commits
// the result, so N workflow updates become exactly one commit.
type Builder struct {
	owner    string
	repo     string
	verified bool

	prevInfo    *trs.ServiceInfo
	toolClasses []trs.ToolClass
	tools       []trs.Tool

	// records preserves first-apply order; re-applying the same id and
	// version replaces the stored record in place.
	records    []*metadata.Record
	recordsIdx map[recordKey]int
}

// NewBuilder seeds a builder with the previously published state. Passing
// verified=true attaches CI run provenance to every applied version, when
// the process runs inside a CI job with a resolvable run URL.
func NewBuilder(snap *Snapshot, owner, repo string, verified bool) *Builder {
	if snap == nil {
		snap = &Snapshot{ToolClasses: trs.MergeToolClasses(nil)}
	}
	return &Builder{
		owner:       owner,
		repo:        repo,
		verified:    verified,
		prevInfo:    snap.ServiceInfo,
		toolClasses: append([]trs.ToolClass{}, snap.ToolClasses...),
		tools:       append([]trs.Tool{}, snap.Tools...),
		recordsIdx:  map[recordKey]int{},
	}
}

// verificationSources resolves the provenance attached to versions applied
// by this builder: the CI run URL when publishing verified from CI, nothing
// otherwise.
func (b *Builder) verificationSources() []string {
	if !b.verified || !ci.InCI() {
		return nil
	}
	url, err := ci.ActionsRunURL()
	if err != nil {
		logger.Warnf("Publishing verified without provenance: %v", err)
		return nil
	}
	return []string{url}
}

// Apply merges one record into the registry state, creating the tool entry
// on first sight of its workflow ID and upserting the version entry.
func (b *Builder) Apply(rec *metadata.Record) {
	idx := -1
	for i := range b.tools {
		if b.tools[i].ID == rec.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		b.tools = append(b.tools, trs.NewTool(rec, b.owner, b.repo))
		idx = len(b.tools) - 1
	}
	b.tools[idx].UpsertVersion(rec, b.verificationSources())

	key := recordKey{id: rec.ID, version: rec.Version}
	if i, ok := b.recordsIdx[key]; ok {
		b.records[i] = rec
		return
	}
	b.recordsIdx[key] = len(b.records)
	b.records = append(b.records, rec)
}

// Registry is the assembled result of one publish invocation: the full
// registry state plus the records applied in it, which the materializer
// turns into per-version documents.
type Registry struct {
	ServiceInfo trs.ServiceInfo
	ToolClasses []trs.ToolClass
	Tools       []trs.Tool
	Records     []*metadata.Record
}

// Build finalizes the registry state. The service info is merged at this
// point so its updatedAt and version stamps reflect the publish time.
func (b *Builder) Build() *Registry {
	return &Registry{
		ServiceInfo: trs.MergeServiceInfo(b.prevInfo, b.owner, b.repo),
		ToolClasses: b.toolClasses,
		Tools:       b.tools,
		Records:     b.records,
	}
}

// FindTool returns the tool entry for a workflow ID.
func (r *Registry) FindTool(id uuid.UUID) (*trs.Tool, bool) {
	for i := range r.Tools {
		if r.Tools[i].ID == id {
			return &r.Tools[i], true
		}
	}
	return nil, false
}
