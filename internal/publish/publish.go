// Package publish turns workflow metadata records into registry documents
// and commits them to a repository branch as a single commit.
package publish

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/ci"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/metadata"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/registry"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
)

// Options configure one publish invocation.
type Options struct {
	// Repository receives the published documents.
	Repository githost.Repository
	// Branch overrides the target branch. Empty means the repository's
	// pages branch.
	Branch string
	// Verified marks the applied versions as verified by attaching CI run
	// provenance when available.
	Verified bool
}

// Result reports what a publish committed.
type Result struct {
	Branch    string
	CommitSha string
	Message   string
	Tree      registry.DocumentTree
}

// Assemble builds the full document tree for one publish: load the published
// snapshot from src, fold the records into it, and materialize every
// document. It touches no git state, so dry runs and the preview server use
// it directly.
func Assemble(ctx context.Context, fetcher fetch.Fetcher, src registry.SnapshotSource, records []*metadata.Record, opts Options) (registry.DocumentTree, error) {
	snap := registry.LoadSnapshot(ctx, src)
	builder := registry.NewBuilder(snap, opts.Repository.Owner, opts.Repository.Name, opts.Verified)
	for _, rec := range records {
		builder.Apply(rec)
	}
	return registry.NewMaterializer(fetcher).Materialize(ctx, builder.Build())
}

// CommitMessage composes the commit message for a set of published records.
func CommitMessage(records []*metadata.Record) string {
	var msg string
	if len(records) == 1 {
		msg = fmt.Sprintf("Publish workflow, id: %s version: %s by yevis", records[0].ID, records[0].Version)
	} else {
		msg = "Publish multiple workflows by yevis"
	}
	if ci.InCI() {
		msg += " in CI"
	}
	return msg
}

// Publisher runs publish invocations against one git host.
type Publisher struct {
	host    githost.Host
	fetcher fetch.Fetcher
	metrics *telemetry.PublishMetrics
	tracer  trace.Tracer
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithMetrics records publish outcomes to the given instruments.
func WithMetrics(m *telemetry.PublishMetrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithTracerProvider emits a span per publish invocation.
func WithTracerProvider(tp trace.TracerProvider) PublisherOption {
	return func(p *Publisher) {
		if tp != nil {
			p.tracer = tp.Tracer(telemetry.PublishTracerName)
		}
	}
}

// NewPublisher creates a publisher for the given host and fetcher.
func NewPublisher(host githost.Host, fetcher fetch.Fetcher, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		host:    host,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveBranch picks the branch a publish targets: the explicit override
// when set, the repository's pages branch otherwise.
func (p *Publisher) ResolveBranch(ctx context.Context, opts Options) (string, error) {
	if opts.Branch != "" {
		return opts.Branch, nil
	}
	return p.host.PagesBranch(ctx, opts.Repository)
}

// Publish assembles the document tree for records and commits it to the
// target branch in a single commit. src supplies the previously published
// registry state; pass nil on a repository that has never been published.
func (p *Publisher) Publish(ctx context.Context, src registry.SnapshotSource, records []*metadata.Record, opts Options) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, p.tracer, "publish.Publish",
		trace.WithAttributes(
			telemetry.AttrRepository.String(opts.Repository.String()),
			telemetry.AttrRecordCount.Int(len(records)),
		))
	defer span.End()

	start := time.Now()
	result, err := p.publish(ctx, src, records, opts)
	if err != nil {
		telemetry.RecordError(span, err)
		p.metrics.RecordPublish(ctx, opts.Repository.String(), time.Since(start), 0, false)
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrBranch.String(result.Branch),
		telemetry.AttrDocumentCount.Int(len(result.Tree)),
		telemetry.AttrCommitSha.String(result.CommitSha),
	)
	p.metrics.RecordPublish(ctx, opts.Repository.String(), time.Since(start), len(result.Tree), true)
	return result, nil
}

func (p *Publisher) publish(ctx context.Context, src registry.SnapshotSource, records []*metadata.Record, opts Options) (*Result, error) {
	branch, err := p.ResolveBranch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target branch: %w", err)
	}
	logger.Infof("Publishing %d workflow(s) to %s branch %s", len(records), opts.Repository, branch)

	tree, err := Assemble(ctx, p.fetcher, src, records, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble registry documents: %w", err)
	}

	message := CommitMessage(records)
	tx := NewTransaction(p.host, opts.Repository, branch)
	commitSha, err := tx.Run(ctx, tree, message)
	if err != nil {
		return nil, err
	}
	logger.Infof("Published commit %s to %s branch %s", commitSha, opts.Repository, branch)

	return &Result{
		Branch:    branch,
		CommitSha: commitSha,
		Message:   message,
		Tree:      tree,
	}, nil
}
